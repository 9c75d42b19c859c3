package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"family-puzzles/internal/domain"
)

// PuzzleLoader fetches puzzle content from a backing store (e.g., Postgres).
type PuzzleLoader interface {
	LoadPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error)
}

// PuzzleRepository caches full puzzle documents in Redis and falls back to a
// loader on cache miss. Puzzles are stored as:
// SET puzzle:{variant}:{id} {json} EX {ttl}
type PuzzleRepository struct {
	client *redis.Client
	loader PuzzleLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPuzzleRepository(client *redis.Client, loader PuzzleLoader, ttl time.Duration) *PuzzleRepository {
	return &PuzzleRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PuzzleRepository) GetPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	key := puzzleKey(variant, id)

	if puzzle, ok := r.fromCache(ctx, key); ok {
		return puzzle, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if puzzle, ok := r.fromCache(ctx, key); ok {
			return puzzle, nil
		}

		puzzle, err := r.loader.LoadPuzzle(ctx, variant, id)
		if err != nil {
			return domain.Puzzle{}, err
		}

		if data, err := json.Marshal(puzzle); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return puzzle, nil
	})
	if err != nil {
		return domain.Puzzle{}, err
	}
	return result.(domain.Puzzle), nil
}

// Invalidate drops one cached puzzle, used after an admin upsert.
func (r *PuzzleRepository) Invalidate(ctx context.Context, variant domain.Variant, id string) {
	_ = r.client.Del(ctx, puzzleKey(variant, id)).Err()
}

func (r *PuzzleRepository) fromCache(ctx context.Context, key string) (domain.Puzzle, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Puzzle{}, false
	}
	var puzzle domain.Puzzle
	if err := json.Unmarshal(data, &puzzle); err != nil {
		return domain.Puzzle{}, false
	}
	return puzzle, true
}

func puzzleKey(variant domain.Variant, id string) string {
	return "puzzle:" + string(variant) + ":" + id
}

func (r *PuzzleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
