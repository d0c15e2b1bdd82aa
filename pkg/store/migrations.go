package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration     = errors.New("invalid configuration")
	ErrPostgresFailure          = errors.New("postgres returned an error")
	ErrNotEnoughSQLMigrations   = errors.New("already more migrations than wanted")
	ErrIncompatibleSQLMigration = errors.New("incompatible migration")
)

// migrations are applied in order and recorded in the migration table.
// Append only: never edit an entry that has shipped.
var migrations = []string{
	`CREATE TABLE document (
		id TEXT PRIMARY KEY,
		body BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX document_updated_at_idx ON document (updated_at)`,
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migration
		(id SERIAL PRIMARY KEY, query TEXT)
	`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}

	var existing []string
	if err := s.db.SelectContext(ctx, &existing, `SELECT query FROM migration ORDER BY id`); err != nil {
		return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}

	missing, err := compareMigrations(migrations, existing)
	if err != nil {
		return err
	}

	for _, query := range missing {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
		}
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO migration (query) VALUES ($1)`, query); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
		}
	}
	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	if len(wanted) < len(existing) {
		return nil, ErrNotEnoughSQLMigrations
	}

	var needed []string
	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want != existing[i]:
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleSQLMigration, want)
		}
	}
	return needed, nil
}
