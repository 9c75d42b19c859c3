package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"family-puzzles/internal/domain"
	"family-puzzles/internal/feedback"
)

// Grouping is the Connections-style session: find four categories of four
// words within a budget of four mistakes.
type Grouping struct {
	mu sync.Mutex
	machine

	puzzle    domain.Puzzle
	found     []domain.Category
	remaining []string // display order only; never consulted for scoring
	selected  []string
	mistakes  int
	rnd       *rand.Rand
}

// NewGrouping builds an active session for a grouping puzzle.
func NewGrouping(puzzle domain.Puzzle, player domain.Player) (*Grouping, error) {
	return NewGroupingWithClock(puzzle, player, time.Now)
}

// NewGroupingWithClock allows deterministic timestamps in tests.
func NewGroupingWithClock(puzzle domain.Puzzle, player domain.Player, now func() time.Time) (*Grouping, error) {
	if puzzle.Variant != domain.VariantGrouping {
		return nil, fmt.Errorf("%w: grouping session needs a grouping puzzle, got %s", domain.ErrUnknownVariant, puzzle.Variant)
	}
	s := &Grouping{
		machine: newMachine(domain.VariantGrouping, GroupingMaxMistakes, puzzle.ID, player, now),
		puzzle:  puzzle,
		rnd:     rand.New(rand.NewSource(now().UnixNano())),
	}
	s.resetBoard()
	if err := s.activate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Grouping) resetBoard() {
	s.found = nil
	s.selected = nil
	s.mistakes = 0
	words := make([]string, 0, 16)
	for _, cat := range s.puzzle.Categories {
		words = append(words, cat.Words...)
	}
	s.rnd.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	s.remaining = words
}

// Variant implements Session.
func (s *Grouping) Variant() domain.Variant { return domain.VariantGrouping }

// Reset discards all progress and replays the same puzzle ("play again").
func (s *Grouping) Reset(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCore(ctx)
	s.resetBoard()
	_ = s.activate(ctx)
	return s.snapshotLocked()
}

// Toggle adds or removes a word from the pending selection, capped at four
// concurrently selected. The first toggle starts the timer.
func (s *Grouping) Toggle(word string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guardActive() != nil {
		return s.snapshotLocked()
	}
	s.timer.Start()
	for i, sel := range s.selected {
		if strings.EqualFold(sel, word) {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return s.snapshotLocked()
		}
	}
	if len(s.selected) < 4 && s.onBoard(word) {
		s.selected = append(s.selected, word)
	}
	return s.snapshotLocked()
}

// DeselectAll clears the pending selection.
func (s *Grouping) DeselectAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	return s.snapshotLocked()
}

// Shuffle reorders the remaining words. Display only: the scoring path never
// depends on board order.
func (s *Grouping) Shuffle() (Snapshot, []Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guardActive() != nil {
		return s.snapshotLocked(), nil
	}
	s.rnd.Shuffle(len(s.remaining), func(i, j int) {
		s.remaining[i], s.remaining[j] = s.remaining[j], s.remaining[i]
	})
	return s.snapshotLocked(), []Effect{ShowMessage{Text: "Words shuffled!", Kind: MessageInfo, Transient: true}}
}

// Submit scores the current four-word selection. Every accepted submit
// appends exactly one attempt; an incomplete selection is rejected without
// consuming a mistake.
func (s *Grouping) Submit(ctx context.Context) (Snapshot, []Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardActive(); err != nil {
		return s.snapshotLocked(), nil, err
	}
	if len(s.selected) != 4 {
		return s.snapshotLocked(), []Effect{ShowMessage{Text: "Select exactly 4 words", Kind: MessageError, Transient: true}}, nil
	}
	s.timer.Start()

	selection := append([]string(nil), s.selected...)
	s.selected = nil

	if cat, ok := feedback.MatchCategory(selection, s.unsolvedCategories()); ok {
		s.record(domain.GuessAttempt{
			Words:      selection,
			Correct:    true,
			Category:   cat.Title,
			Difficulty: cat.Difficulty,
		})
		s.found = append(s.found, cat)
		s.removeFromBoard(cat.Words)
		if len(s.found) == len(s.puzzle.Categories) {
			s.finish(ctx, true)
			return s.snapshotLocked(), []Effect{
				ShowMessage{Text: "Congratulations! You won! 🎊", Kind: MessageSuccess},
				PersistResult{Record: s.resultLocked(true)},
			}, nil
		}
		return s.snapshotLocked(), []Effect{ShowMessage{Text: "Correct! 🎉", Kind: MessageSuccess, Transient: true}}, nil
	}

	oneAway := feedback.OneAway(selection, s.puzzle.Categories, s.foundTitles())
	s.record(domain.GuessAttempt{Words: selection, OneAway: oneAway})
	s.mistakes++

	if s.mistakes >= s.budget {
		s.finish(ctx, false)
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: "Game Over! Better luck next time!", Kind: MessageError},
			PersistResult{Record: s.resultLocked(false)},
		}, nil
	}

	text := fmt.Sprintf("Nope! %d mistakes remaining.", s.budget-s.mistakes)
	if oneAway {
		text = fmt.Sprintf("So close! One away! 🤏 %d mistakes remaining.", s.budget-s.mistakes)
	}
	return s.snapshotLocked(), []Effect{ShowMessage{Text: text, Kind: MessageError, Transient: true}}, nil
}

// Snapshot implements Session.
func (s *Grouping) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Grouping) snapshotLocked() Snapshot {
	snap := Snapshot{
		Variant:         domain.VariantGrouping,
		PuzzleID:        s.puzzleID,
		Phase:           s.phase(),
		Won:             s.phase() == PhaseWon,
		ElapsedSeconds:  s.timer.Elapsed(),
		BudgetRemaining: s.budget - s.mistakes,
		Attempts:        s.attemptsCopy(),
		FoundCategories: append([]domain.Category(nil), s.found...),
		RemainingWords:  append([]string(nil), s.remaining...),
		SelectedWords:   append([]string(nil), s.selected...),
		Mistakes:        s.mistakes,
	}
	if snap.Phase == PhaseLost {
		snap.RevealedCategories = s.unsolvedCategories()
	}
	return snap
}

func (s *Grouping) resultLocked(won bool) domain.ResultRecord {
	rec := s.baseRecord(won)
	rec.Mistakes = s.mistakes
	rec.FoundCount = len(s.found)
	return rec
}

func (s *Grouping) unsolvedCategories() []domain.Category {
	titles := s.foundTitles()
	var out []domain.Category
	for _, cat := range s.puzzle.Categories {
		if !titles[cat.Title] {
			out = append(out, cat)
		}
	}
	return out
}

func (s *Grouping) foundTitles() map[string]bool {
	titles := make(map[string]bool, len(s.found))
	for _, cat := range s.found {
		titles[cat.Title] = true
	}
	return titles
}

func (s *Grouping) onBoard(word string) bool {
	for _, w := range s.remaining {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

func (s *Grouping) removeFromBoard(words []string) {
	keep := s.remaining[:0]
	for _, w := range s.remaining {
		matched := false
		for _, gone := range words {
			if strings.EqualFold(w, gone) {
				matched = true
				break
			}
		}
		if !matched {
			keep = append(keep, w)
		}
	}
	s.remaining = keep
}
