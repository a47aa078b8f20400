package assessor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists assessment results in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, result *Result) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessments (chain, address, symbol, score, category, error, detail, assessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		result.Chain,
		result.Address,
		result.Symbol,
		result.Score,
		result.Category,
		result.Error,
		detail,
		result.AssessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, chain, address string, before time.Time, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT detail
		FROM assessments
		WHERE chain = $1 AND address = $2
	`
	args := []interface{}{chain, address}
	if !before.IsZero() {
		query += ` AND assessed_at < $3`
		args = append(args, before)
	}
	query += fmt.Sprintf(` ORDER BY assessed_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Result
	for rows.Next() {
		var detail []byte
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		var r Result
		if err := json.Unmarshal(detail, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
