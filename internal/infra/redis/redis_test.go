package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"family-puzzles/internal/domain"
	"family-puzzles/internal/infra/memory"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPuzzleRepositoryCachesInRedis(t *testing.T) {
	client := newClient(t)

	loader := &countingLoader{
		PuzzleLoader: memory.NewStaticPuzzleLoader([]domain.Puzzle{samplePuzzle()}),
	}
	repo := NewPuzzleRepository(client, loader, time.Minute)

	puzzle, err := repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	if err != nil {
		t.Fatalf("get puzzle: %v", err)
	}
	if puzzle.TargetWord != "CRANE" {
		t.Fatalf("puzzle = %+v", puzzle)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit cache, loader not incremented.
	puzzle, err = repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	if err != nil {
		t.Fatalf("get puzzle 2: %v", err)
	}
	if puzzle.TargetWord != "CRANE" || loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestPuzzleRepositoryInvalidate(t *testing.T) {
	client := newClient(t)
	loader := &countingLoader{
		PuzzleLoader: memory.NewStaticPuzzleLoader([]domain.Puzzle{samplePuzzle()}),
	}
	repo := NewPuzzleRepository(client, loader, time.Minute)

	repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	repo.Invalidate(context.Background(), domain.VariantWordle, "w-1")
	repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestResultStoreRoundTrip(t *testing.T) {
	client := newClient(t)
	store := NewResultStore(client)
	ctx := context.Background()

	recs := []domain.ResultRecord{
		{ID: "1", Variant: domain.VariantWordle, UserID: "u1", UserName: "A", Won: true, GuessCount: 3, CompletedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "2", Variant: domain.VariantWordle, UserID: "u2", UserName: "B", Won: false, GuessCount: 6, CompletedAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)},
		{ID: "3", Variant: domain.VariantGrouping, UserID: "u1", UserName: "A", Won: true, Mistakes: 2, CompletedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, r := range recs {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	wordle, err := store.ListByVariant(ctx, domain.VariantWordle)
	if err != nil {
		t.Fatalf("list by variant: %v", err)
	}
	if len(wordle) != 2 || wordle[0].ID != "1" || wordle[1].ID != "2" {
		t.Fatalf("wordle results = %+v, want 1 then 2", wordle)
	}
	if !wordle[0].Won || wordle[0].GuessCount != 3 {
		t.Fatalf("record fields lost: %+v", wordle[0])
	}

	mine, err := store.ListByPlayer(ctx, domain.VariantWordle, "u1")
	if err != nil {
		t.Fatalf("list by player: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "1" {
		t.Fatalf("player results = %+v, want only record 1", mine)
	}

	empty, err := store.ListByVariant(ctx, domain.VariantQuordle)
	if err != nil {
		t.Fatalf("list empty variant: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty variant = %+v, want none", empty)
	}
}

func TestResultStoreSkipsCorruptEntries(t *testing.T) {
	client := newClient(t)
	store := NewResultStore(client)
	ctx := context.Background()

	if err := store.Append(ctx, domain.ResultRecord{ID: "1", Variant: domain.VariantWordle, UserID: "u1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := client.RPush(ctx, "results:wordle", "{not json").Err(); err != nil {
		t.Fatalf("rpush: %v", err)
	}

	got, err := store.ListByVariant(ctx, domain.VariantWordle)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("results = %+v, want corrupt entry skipped", got)
	}
}

type countingLoader struct {
	memory.PuzzleLoader
	calls int
}

func (l *countingLoader) LoadPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	l.calls++
	return l.PuzzleLoader.LoadPuzzle(ctx, variant, id)
}

func samplePuzzle() domain.Puzzle {
	return domain.Puzzle{ID: "w-1", Variant: domain.VariantWordle, TargetWord: "CRANE"}
}
