package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-puzzles/internal/domain"
)

func TestPuzzleRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		PuzzleLoader: NewStaticPuzzleLoader([]domain.Puzzle{samplePuzzle()}),
	}
	repo := NewPuzzleRepository(loader, time.Minute)

	if _, err := repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1"); err != nil {
		t.Fatalf("get puzzle: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1"); err != nil {
		t.Fatalf("get puzzle 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPuzzleRepositoryKeysByVariant(t *testing.T) {
	loader := NewStaticPuzzleLoader([]domain.Puzzle{
		{ID: "shared", Variant: domain.VariantWordle, TargetWord: "CRANE"},
		{ID: "shared", Variant: domain.VariantQuordle, TargetWords: []string{"CRANE", "SLATE", "BRICK", "POUND"}},
	})
	repo := NewPuzzleRepository(loader, time.Minute)

	w, err := repo.GetPuzzle(context.Background(), domain.VariantWordle, "shared")
	if err != nil {
		t.Fatalf("get wordle: %v", err)
	}
	q, err := repo.GetPuzzle(context.Background(), domain.VariantQuordle, "shared")
	if err != nil {
		t.Fatalf("get quordle: %v", err)
	}
	if w.Variant == q.Variant {
		t.Fatalf("variants collided in cache: %s / %s", w.Variant, q.Variant)
	}
}

func TestPuzzleRepositoryInvalidate(t *testing.T) {
	loader := &countingLoader{
		PuzzleLoader: NewStaticPuzzleLoader([]domain.Puzzle{samplePuzzle()}),
	}
	repo := NewPuzzleRepository(loader, time.Minute)

	repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	repo.Invalidate(domain.VariantWordle, "w-1")
	repo.GetPuzzle(context.Background(), domain.VariantWordle, "w-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderUnknownPuzzle(t *testing.T) {
	loader := NewStaticPuzzleLoader(nil)
	_, err := loader.LoadPuzzle(context.Background(), domain.VariantWordle, "nope")
	if !errors.Is(err, domain.ErrPuzzleNotFound) {
		t.Fatalf("expected ErrPuzzleNotFound, got %v", err)
	}
}

func TestResultStoreScopesByVariantAndPlayer(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	recs := []domain.ResultRecord{
		{ID: "1", Variant: domain.VariantWordle, UserID: "u1", Won: true},
		{ID: "2", Variant: domain.VariantWordle, UserID: "u2", Won: false},
		{ID: "3", Variant: domain.VariantGrouping, UserID: "u1", Won: true},
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
	if len(wordle) != 2 || wordle[0].ID != "1" {
		t.Fatalf("wordle results = %+v, want 2 in append order", wordle)
	}

	mine, err := store.ListByPlayer(ctx, domain.VariantWordle, "u1")
	if err != nil {
		t.Fatalf("list by player: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "1" {
		t.Fatalf("player results = %+v, want only record 1", mine)
	}
}

func TestPlayerDirectory(t *testing.T) {
	dir := NewPlayerDirectory(domain.Player{UserID: "seed", UserName: "Granny"})
	ctx := context.Background()

	p, err := dir.Create(ctx, "Avery")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.UserID == "" || p.UserName != "Avery" {
		t.Fatalf("created player = %+v", p)
	}

	got, err := dir.Get(ctx, p.UserID)
	if err != nil || got.UserName != "Avery" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := dir.Get(ctx, "missing"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	all, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].UserName != "Granny" {
		t.Fatalf("list = %+v, want seed first", all)
	}
}

type countingLoader struct {
	PuzzleLoader
	calls int
}

func (l *countingLoader) LoadPuzzle(ctx context.Context, variant domain.Variant, id string) (domain.Puzzle, error) {
	l.calls++
	return l.PuzzleLoader.LoadPuzzle(ctx, variant, id)
}

func samplePuzzle() domain.Puzzle {
	return domain.Puzzle{ID: "w-1", Variant: domain.VariantWordle, TargetWord: "CRANE"}
}
