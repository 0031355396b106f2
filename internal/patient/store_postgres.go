package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"careline/pkg/sentinel"
)

const patientsSchema = `
CREATE TABLE IF NOT EXISTS patients (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL UNIQUE,
    address         TEXT NOT NULL,
    date_of_birth   DATE NOT NULL,
    registered_date DATE NOT NULL
)`

// PostgresStore persists patient records via pgx. The unique index on email
// is the authoritative duplicate guard; violations come back as
// sentinel.ErrDuplicateEmail regardless of which statement tripped them.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, patientsSchema); err != nil {
		return fmt.Errorf("ensure patients schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE lower(email) = lower($1))`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ExistsByEmailExcept(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE lower(email) = lower($1) AND id <> $2)`,
		email, except).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email except: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO patients (id, name, email, address, date_of_birth, registered_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Name, rec.Email, rec.Address, rec.DateOfBirth, rec.RegisteredDate)
	if err != nil {
		return translateError("insert patient", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rec Record) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE patients SET name = $2, email = $3, address = $4, date_of_birth = $5
		 WHERE id = $1`,
		rec.ID, rec.Name, rec.Email, rec.Address, rec.DateOfBirth)
	if err != nil {
		return translateError("update patient", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, address, date_of_birth, registered_date
		 FROM patients WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Address, &rec.DateOfBirth, &rec.RegisteredDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("find patient: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, address, date_of_birth, registered_date
		 FROM patients ORDER BY registered_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Address,
			&rec.DateOfBirth, &rec.RegisteredDate); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return sentinel.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}
