package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB Querier
}

func NewStore(db Querier) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var user AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, COALESCE(full_name, ''), role, password_hash
    FROM profiles
    WHERE email = $1 AND is_active
  `, email).Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.PasswordHash)
	return user, err
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE profiles SET password_hash = $1, updated_at = now() WHERE id = $2", passwordHash, userID)
	return err
}

func (s *Store) CreateResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO password_resets (user_id, token_hash, expires_at)
    VALUES ($1, $2, $3)
  `, userID, tokenHash, expires)
	return err
}

// ConsumeResetToken returns the owning user and invalidates the token in
// one statement.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    UPDATE password_resets
    SET used_at = now()
    WHERE token_hash = $1 AND used_at IS NULL AND expires_at > now()
    RETURNING user_id
  `, tokenHash).Scan(&userID)
	return userID, err
}

func (s *Store) UserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, "SELECT email FROM profiles WHERE id = $1", userID).Scan(&email)
	return email, err
}
