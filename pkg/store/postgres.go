package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/matzehuels/feedtree/pkg/feed"
	"github.com/matzehuels/feedtree/pkg/observability"
)

// PostgresStore keeps documents in a "document" table. The schema is
// created on open by an ordered list of migrations.
type PostgresStore struct {
	db *sqlx.DB
}

type dbDocument struct {
	ID        string    `db:"id"`
	Body      []byte    `db:"body"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewPostgresStore connects to dsn and applies pending migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn required", ErrInvalidConfiguration)
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM document WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}
	return exists, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*feed.Document, error) {
	var row dbDocument
	err := s.db.GetContext(ctx, &row, `SELECT id, body, updated_at FROM document WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		observability.Store().OnRead(ctx, BackendPostgres, id, false)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}
	observability.Store().OnRead(ctx, BackendPostgres, id, true)

	doc, err := feed.Unmarshal(row.Body)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, doc *feed.Document) error {
	body, err := feed.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO document (id, body, updated_at) VALUES (:id, :body, :updated_at)
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`, dbDocument{ID: id, Body: body, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}
	observability.Store().OnWrite(ctx, BackendPostgres, id, len(body))
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM document WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}
	observability.Store().OnDelete(ctx, BackendPostgres, id)
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM document ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostgresFailure, err)
	}
	return ids, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
