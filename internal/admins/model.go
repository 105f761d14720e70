package admins

import (
	"errors"
	"time"
)

// Admin is a dashboard user.
type Admin struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	FullName       string     `json:"full_name"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	IsSuperuser    bool       `json:"is_superuser"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// LoginRequest is the credential payload for POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var (
	// ErrNotFound is returned when no matching active admin exists.
	ErrNotFound = errors.New("admin not found")

	// ErrInvalidCredentials is returned for a bad username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for missing, malformed, or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)
