package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"family-puzzles/internal/domain"
)

// PuzzleStore loads and writes puzzle JSONB documents in Postgres.
type PuzzleStore struct {
	pool *pgxpool.Pool
}

func NewPuzzleStore(pool *pgxpool.Pool) *PuzzleStore {
	return &PuzzleStore{pool: pool}
}

func (s *PuzzleStore) LoadPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM puzzles WHERE variant=$1 AND id=$2`, string(variant), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Puzzle{}, domain.ErrPuzzleNotFound
	}
	if err != nil {
		return domain.Puzzle{}, fmt.Errorf("load puzzle: %w", err)
	}
	var puzzle domain.Puzzle
	if err := json.Unmarshal(raw, &puzzle); err != nil {
		return domain.Puzzle{}, fmt.Errorf("unmarshal puzzle: %w", err)
	}
	return puzzle, nil
}

func (s *PuzzleStore) PutPuzzle(ctx context.Context, puzzle domain.Puzzle) error {
	data, err := json.Marshal(puzzle)
	if err != nil {
		return fmt.Errorf("marshal puzzle: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO puzzles (variant, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (variant, id) DO UPDATE SET data = EXCLUDED.data`,
		string(puzzle.Variant), puzzle.ID, data)
	if err != nil {
		return fmt.Errorf("put puzzle: %w", err)
	}
	return nil
}
