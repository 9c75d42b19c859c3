package session

import (
	"context"
	"sync"
	"time"

	"family-puzzles/internal/domain"
)

// fakeClock is a manually advanced clock shared by the session tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// stubDict accepts or rejects every word.
type stubDict struct{ valid bool }

func (d stubDict) Check(context.Context, string) bool { return d.valid }

func groupingPuzzle() domain.Puzzle {
	return domain.Puzzle{
		ID:      "g-1",
		Variant: domain.VariantGrouping,
		Categories: []domain.Category{
			{Title: "Cutlery", Words: []string{"FORK", "KNIFE", "SPOON", "LADLE"}, Difficulty: domain.DifficultyEasy},
			{Title: "Colours", Words: []string{"RED", "BLUE", "GREEN", "AMBER"}, Difficulty: domain.DifficultyMedium},
			{Title: "Rivers", Words: []string{"NILE", "SEINE", "VOLGA", "RHINE"}, Difficulty: domain.DifficultyHard},
			{Title: "Cheeses", Words: []string{"BRIE", "FETA", "GOUDA", "EDAM"}, Difficulty: domain.DifficultyTricky},
		},
	}
}

func wordlePuzzle(target string) domain.Puzzle {
	return domain.Puzzle{ID: "w-1", Variant: domain.VariantWordle, TargetWord: target}
}

func quordlePuzzle(targets ...string) domain.Puzzle {
	return domain.Puzzle{ID: "q-1", Variant: domain.VariantQuordle, TargetWords: targets}
}

func testPlayer() domain.Player {
	return domain.Player{UserID: "u-1", UserName: "Avery"}
}

func findPersist(effects []Effect) (PersistResult, bool) {
	for _, e := range effects {
		if p, ok := e.(PersistResult); ok {
			return p, true
		}
	}
	return PersistResult{}, false
}

func findMessage(effects []Effect) (ShowMessage, bool) {
	for _, e := range effects {
		if m, ok := e.(ShowMessage); ok {
			return m, true
		}
	}
	return ShowMessage{}, false
}
