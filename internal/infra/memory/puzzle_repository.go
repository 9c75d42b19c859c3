package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"family-puzzles/internal/domain"
)

// PuzzleLoader fetches puzzle content from a backing store (e.g., Postgres).
type PuzzleLoader interface {
	LoadPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error)
}

// PuzzleRepository caches puzzles with TTL to avoid repeated DB hits.
// Puzzle content is immutable during play, so a stale window is harmless.
type PuzzleRepository struct {
	loader PuzzleLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPuzzle
}

type cachedPuzzle struct {
	puzzle    domain.Puzzle
	expiresAt time.Time
}

func NewPuzzleRepository(loader PuzzleLoader, ttl time.Duration) *PuzzleRepository {
	return &PuzzleRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPuzzle),
	}
}

func cacheKey(variant domain.Variant, id string) string {
	return string(variant) + ":" + id
}

func (r *PuzzleRepository) GetPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	key := cacheKey(variant, id)
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.puzzle, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.puzzle, nil
		}
		r.mu.RUnlock()

		puzzle, err := r.loader.LoadPuzzle(ctx, variant, id)
		if err != nil {
			return domain.Puzzle{}, err
		}

		r.mu.Lock()
		r.cache[key] = cachedPuzzle{
			puzzle:    puzzle,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return puzzle, nil
	})
	if err != nil {
		return domain.Puzzle{}, err
	}
	return result.(domain.Puzzle), nil
}

// Invalidate drops one cached entry, used after an admin upsert.
func (r *PuzzleRepository) Invalidate(variant domain.Variant, id string) {
	r.mu.Lock()
	delete(r.cache, cacheKey(variant, id))
	r.mu.Unlock()
}

func (r *PuzzleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticPuzzleLoader is a loader backed by an in-memory map (useful for
// tests, demos, and single-box deployments without a database).
type StaticPuzzleLoader struct {
	mu      sync.RWMutex
	puzzles map[string]domain.Puzzle
}

func NewStaticPuzzleLoader(puzzles []domain.Puzzle) *StaticPuzzleLoader {
	l := &StaticPuzzleLoader{puzzles: make(map[string]domain.Puzzle, len(puzzles))}
	for _, p := range puzzles {
		l.puzzles[cacheKey(p.Variant, p.ID)] = p
	}
	return l
}

func (l *StaticPuzzleLoader) LoadPuzzle(_ context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if puzzle, ok := l.puzzles[cacheKey(variant, id)]; ok {
		return puzzle, nil
	}
	return domain.Puzzle{}, domain.ErrPuzzleNotFound
}

// PutPuzzle stores or replaces a definition.
func (l *StaticPuzzleLoader) PutPuzzle(_ context.Context, puzzle domain.Puzzle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.puzzles[cacheKey(puzzle.Variant, puzzle.ID)] = puzzle
	return nil
}
