package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"family-puzzles/internal/domain"
)

// ResultStore persists finished games as JSONB rows. The indexed columns
// cover the two read paths: per-variant leaderboards and per-player stats.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Append(ctx context.Context, rec domain.ResultRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO results (id, variant, user_id, completed_at, data)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, string(rec.Variant), rec.UserID, rec.CompletedAt, data)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByVariant(ctx context.Context, variant domain.Variant) ([]domain.ResultRecord, error) {
	return s.list(ctx, `SELECT data FROM results WHERE variant=$1 ORDER BY completed_at`, string(variant))
}

func (s *ResultStore) ListByPlayer(ctx context.Context, variant domain.Variant, userID string) ([]domain.ResultRecord, error) {
	return s.list(ctx, `SELECT data FROM results WHERE variant=$1 AND user_id=$2 ORDER BY completed_at`, string(variant), userID)
}

func (s *ResultStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.ResultRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []domain.ResultRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var rec domain.ResultRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
