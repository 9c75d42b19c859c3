package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"family-puzzles/internal/domain"
	"family-puzzles/internal/feedback"
)

// WordChecker validates a guess against a dictionary. Implementations are
// expected to fail open: a lookup that cannot complete reports the word valid.
type WordChecker interface {
	Check(ctx context.Context, word string) bool
}

// Wordle is the single-board session: guess one five-letter word in six tries.
type Wordle struct {
	mu sync.Mutex
	machine

	puzzle     domain.Puzzle
	dict       WordChecker
	keyboard   feedback.Keyboard
	validating bool
}

// NewWordle builds an active session for a wordle puzzle.
func NewWordle(puzzle domain.Puzzle, player domain.Player, dict WordChecker) (*Wordle, error) {
	return NewWordleWithClock(puzzle, player, dict, time.Now)
}

// NewWordleWithClock allows deterministic timestamps in tests.
func NewWordleWithClock(puzzle domain.Puzzle, player domain.Player, dict WordChecker, now func() time.Time) (*Wordle, error) {
	if puzzle.Variant != domain.VariantWordle {
		return nil, fmt.Errorf("%w: wordle session needs a wordle puzzle, got %s", domain.ErrUnknownVariant, puzzle.Variant)
	}
	s := &Wordle{
		machine:  newMachine(domain.VariantWordle, WordleMaxGuesses, puzzle.ID, player, now),
		puzzle:   puzzle,
		dict:     dict,
		keyboard: feedback.NewKeyboard(),
	}
	if err := s.activate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Variant implements Session.
func (s *Wordle) Variant() domain.Variant { return domain.VariantWordle }

// Reset discards all progress and replays the same puzzle.
func (s *Wordle) Reset(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCore(ctx)
	s.keyboard = feedback.NewKeyboard()
	s.validating = false
	_ = s.activate(ctx)
	return s.snapshotLocked()
}

// Submit scores one guess. Malformed or unknown words are rejected with a
// transient message and consume no attempt. While a dictionary lookup is in
// flight further submits are silently ignored; the lookup runs outside the
// lock so reads stay responsive.
func (s *Wordle) Submit(ctx context.Context, word string) (Snapshot, []Effect, error) {
	s.mu.Lock()
	if err := s.guardActive(); err != nil {
		defer s.mu.Unlock()
		return s.snapshotLocked(), nil, err
	}
	guess, ok := normalizeGuess(word)
	if !ok {
		defer s.mu.Unlock()
		return s.snapshotLocked(), []Effect{ShowMessage{Text: "Word must be 5 letters", Kind: MessageError, Transient: true}}, nil
	}
	if s.validating {
		defer s.mu.Unlock()
		return s.snapshotLocked(), nil, nil
	}
	s.validating = true
	s.timer.Start()
	s.mu.Unlock()

	valid := s.dict.Check(ctx, guess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.validating = false
	if err := s.guardActive(); err != nil {
		return s.snapshotLocked(), nil, err
	}
	if !valid {
		return s.snapshotLocked(), []Effect{ShowMessage{Text: "Not a valid word!", Kind: MessageError, Transient: true}}, nil
	}

	target := strings.ToUpper(s.puzzle.TargetWord)
	tags := feedback.Classify(guess, target)
	s.record(domain.GuessAttempt{Word: guess, Feedback: tags})
	s.keyboard.Update(guess, tags)

	switch {
	case guess == target:
		s.finish(ctx, true)
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: "Congratulations! You won! 🎉", Kind: MessageSuccess},
			PersistResult{Record: s.resultLocked(true)},
		}, nil
	case len(s.attempts) >= s.budget:
		s.finish(ctx, false)
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: fmt.Sprintf("Game Over! The word was %s", target), Kind: MessageError},
			PersistResult{Record: s.resultLocked(false)},
		}, nil
	}
	return s.snapshotLocked(), nil, nil
}

// Snapshot implements Session.
func (s *Wordle) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Wordle) snapshotLocked() Snapshot {
	snap := Snapshot{
		Variant:         domain.VariantWordle,
		PuzzleID:        s.puzzleID,
		Phase:           s.phase(),
		Won:             s.phase() == PhaseWon,
		ElapsedSeconds:  s.timer.Elapsed(),
		BudgetRemaining: s.budget - len(s.attempts),
		Attempts:        s.attemptsCopy(),
		Keyboard:        s.keyboard.Clone(),
	}
	if snap.Phase == PhaseLost {
		snap.Targets = []string{strings.ToUpper(s.puzzle.TargetWord)}
	}
	return snap
}

func (s *Wordle) resultLocked(won bool) domain.ResultRecord {
	rec := s.baseRecord(won)
	rec.GuessCount = len(s.attempts)
	return rec
}

// normalizeGuess uppercases a guess and checks the five-letter A-Z shape.
func normalizeGuess(word string) (string, bool) {
	guess := strings.ToUpper(strings.TrimSpace(word))
	if len(guess) != 5 {
		return "", false
	}
	for _, r := range guess {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return guess, true
}
