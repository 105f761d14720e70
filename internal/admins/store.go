package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store reads and updates admin rows. Only active admins are visible;
// deactivation revokes access without deleting the account.
type Store struct {
	db *sql.DB
}

// NewStore creates an admin store.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("admins: db required")
	}
	return &Store{db: db}
}

const adminColumns = `id, email, username, full_name, hashed_password,
		is_active, is_superuser, created_at, updated_at, last_login`

func (s *Store) scanAdmin(row *sql.Row) (*Admin, error) {
	var admin Admin
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.Username,
		&admin.FullName,
		&admin.HashedPassword,
		&admin.IsActive,
		&admin.IsSuperuser,
		&admin.CreatedAt,
		&admin.UpdatedAt,
		&admin.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("admins: select failed: %w", err)
	}
	return &admin, nil
}

// GetByUsername fetches an active admin for login.
func (s *Store) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1 AND is_active = true`
	return s.scanAdmin(s.db.QueryRowContext(ctx, query, username))
}

// GetByID fetches an active admin for token verification.
func (s *Store) GetByID(ctx context.Context, id string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1 AND is_active = true`
	return s.scanAdmin(s.db.QueryRowContext(ctx, query, id))
}

// TouchLastLogin stamps a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE admins SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("admins: touch last_login: %w", err)
	}
	return nil
}
