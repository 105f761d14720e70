package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// AuthService issues and verifies HMAC-signed admin access tokens.
type AuthService struct {
	store  *Store
	secret []byte
	expiry time.Duration
	logger *logging.Logger
	now    func() time.Time
}

// NewAuthService creates the admin auth service.
func NewAuthService(store *Store, secret string, expiry time.Duration, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		expiry: expiry,
		logger: logger,
		now:    time.Now,
	}
}

// Login verifies credentials and returns a bearer token. Unknown user,
// wrong password, and inactive account all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	admin, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.TouchLastLogin(ctx, admin.ID); err != nil {
		// Login still succeeds; the stamp is informational.
		s.logger.Warn("failed to update last_login", "error", err, "admin_id", admin.ID)
	}

	token, err := s.issueToken(admin.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *AuthService) issueToken(adminID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("admins: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and loads the active admin it
// names. Expired tokens and deactivated admins are both rejected.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*Admin, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	admin, err := s.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return admin, nil
}

// HashPassword produces a bcrypt hash for seeding admin accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("admins: hash password: %w", err)
	}
	return string(hash), nil
}
