package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore persists cache entries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed cache store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, source, body, stored_at
		FROM response_cache
		WHERE fingerprint = $1
	`, fingerprint).Scan(&e.Fingerprint, &e.Source, &e.Body, &e.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) Put(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO response_cache (fingerprint, source, body, stored_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fingerprint) DO UPDATE
		SET source = EXCLUDED.source, body = EXCLUDED.body, stored_at = EXCLUDED.stored_at
	`, entry.Fingerprint, entry.Source, entry.Body, entry.StoredAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
