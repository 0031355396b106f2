package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"careline/pkg/sentinel"
)

const principalsSchema = `
CREATE TABLE IF NOT EXISTS principals (
    email         TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL
)`

// PostgresCredentialStore persists principals in PostgreSQL via pgx.
type PostgresCredentialStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCredentialStore(pool *pgxpool.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

// EnsureSchema creates the principals table if missing.
func (s *PostgresCredentialStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, principalsSchema); err != nil {
		return fmt.Errorf("ensure principals schema: %w", err)
	}
	return nil
}

func (s *PostgresCredentialStore) Save(ctx context.Context, p Principal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO principals (email, password_hash, role)
		 VALUES (lower($1), $2, $3)
		 ON CONFLICT (email) DO UPDATE SET password_hash = $2, role = $3`,
		p.Email, p.PasswordHash, p.Role)
	if err != nil {
		return fmt.Errorf("save principal: %w", err)
	}
	return nil
}

func (s *PostgresCredentialStore) FindByEmail(ctx context.Context, email string) (Principal, error) {
	var p Principal
	err := s.pool.QueryRow(ctx,
		`SELECT email, password_hash, role FROM principals WHERE email = lower($1)`,
		email).Scan(&p.Email, &p.PasswordHash, &p.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Principal{}, sentinel.ErrNotFound
		}
		return Principal{}, fmt.Errorf("find principal: %w", err)
	}
	return p, nil
}
