package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/platform/config"
)

// Seed makes sure a CEO account exists so a fresh deployment can log in.
// It is idempotent and never overwrites an existing account's password.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM profiles WHERE email = $1", email).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		return errors.New("SEED_ADMIN_PASSWORD is required to seed the admin account")
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO profiles (email, full_name, role, password_hash, is_active)
    VALUES ($1, 'Administrator', $2, $3, true)
  `, email, auth.RoleCEO, hash)
	return err
}
