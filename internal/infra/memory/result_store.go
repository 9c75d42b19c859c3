package memory

import (
	"context"
	"sync"

	"family-puzzles/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
// Records are kept in append order, which is completion order.
type ResultStore struct {
	mu      sync.RWMutex
	results map[domain.Variant][]domain.ResultRecord
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[domain.Variant][]domain.ResultRecord),
	}
}

func (s *ResultStore) Append(_ context.Context, rec domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[rec.Variant] = append(s.results[rec.Variant], rec)
	return nil
}

func (s *ResultStore) ListByVariant(_ context.Context, variant domain.Variant) ([]domain.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ResultRecord(nil), s.results[variant]...), nil
}

func (s *ResultStore) ListByPlayer(_ context.Context, variant domain.Variant, userID string) ([]domain.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ResultRecord
	for _, rec := range s.results[variant] {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
