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

// Quordle is the four-board session: one guess feeds all four boards at once,
// with nine guesses to solve every board.
type Quordle struct {
	mu sync.Mutex
	machine

	puzzle     domain.Puzzle
	dict       WordChecker
	keyboard   feedback.Keyboard
	solved     [4]bool
	validating bool
}

// NewQuordle builds an active session for a quordle puzzle.
func NewQuordle(puzzle domain.Puzzle, player domain.Player, dict WordChecker) (*Quordle, error) {
	return NewQuordleWithClock(puzzle, player, dict, time.Now)
}

// NewQuordleWithClock allows deterministic timestamps in tests.
func NewQuordleWithClock(puzzle domain.Puzzle, player domain.Player, dict WordChecker, now func() time.Time) (*Quordle, error) {
	if puzzle.Variant != domain.VariantQuordle {
		return nil, fmt.Errorf("%w: quordle session needs a quordle puzzle, got %s", domain.ErrUnknownVariant, puzzle.Variant)
	}
	if len(puzzle.TargetWords) != 4 {
		return nil, fmt.Errorf("quordle puzzle %s has %d target words, want 4", puzzle.ID, len(puzzle.TargetWords))
	}
	s := &Quordle{
		machine:  newMachine(domain.VariantQuordle, QuordleMaxGuesses, puzzle.ID, player, now),
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
func (s *Quordle) Variant() domain.Variant { return domain.VariantQuordle }

// Reset discards all progress and replays the same puzzle.
func (s *Quordle) Reset(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCore(ctx)
	s.keyboard = feedback.NewKeyboard()
	s.solved = [4]bool{}
	s.validating = false
	_ = s.activate(ctx)
	return s.snapshotLocked()
}

// Submit scores one guess against all four boards. Validation mirrors the
// single-board game: rejects consume no attempt and the dictionary lookup
// runs outside the lock behind the validating flag.
func (s *Quordle) Submit(ctx context.Context, word string) (Snapshot, []Effect, error) {
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

	boards := make([][]domain.Tag, len(s.puzzle.TargetWords))
	newlySolved := 0
	for i, target := range s.puzzle.TargetWords {
		tags := feedback.Classify(guess, target)
		boards[i] = tags
		if !s.solved[i] && feedback.AllCorrect(tags) {
			s.solved[i] = true
			newlySolved++
		}
	}
	s.record(domain.GuessAttempt{Word: guess, Feedbacks: boards})
	s.keyboard.UpdateBoards(guess, boards)

	switch {
	case s.solvedCount() == len(s.puzzle.TargetWords):
		s.finish(ctx, true)
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: "Congratulations! You solved all 4 words! 🎉", Kind: MessageSuccess},
			PersistResult{Record: s.resultLocked(true)},
		}, nil
	case len(s.attempts) >= s.budget:
		s.finish(ctx, false)
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: fmt.Sprintf("Game Over! You solved %d/4 boards", s.solvedCount()), Kind: MessageError},
			PersistResult{Record: s.resultLocked(false)},
		}, nil
	case newlySolved > 0:
		return s.snapshotLocked(), []Effect{
			ShowMessage{Text: fmt.Sprintf("%d/4 boards solved!", s.solvedCount()), Kind: MessageSuccess, Transient: true},
		}, nil
	}
	return s.snapshotLocked(), nil, nil
}

// Snapshot implements Session.
func (s *Quordle) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Quordle) snapshotLocked() Snapshot {
	snap := Snapshot{
		Variant:         domain.VariantQuordle,
		PuzzleID:        s.puzzleID,
		Phase:           s.phase(),
		Won:             s.phase() == PhaseWon,
		ElapsedSeconds:  s.timer.Elapsed(),
		BudgetRemaining: s.budget - len(s.attempts),
		Attempts:        s.attemptsCopy(),
		Keyboard:        s.keyboard.Clone(),
		SolvedBoards:    append([]bool(nil), s.solved[:]...),
	}
	if snap.Phase == PhaseLost {
		for i, target := range s.puzzle.TargetWords {
			if !s.solved[i] {
				snap.Targets = append(snap.Targets, strings.ToUpper(target))
			}
		}
	}
	return snap
}

func (s *Quordle) resultLocked(won bool) domain.ResultRecord {
	rec := s.baseRecord(won)
	rec.GuessCount = len(s.attempts)
	rec.SolvedCount = s.solvedCount()
	return rec
}

func (s *Quordle) solvedCount() int {
	n := 0
	for _, done := range s.solved {
		if done {
			n++
		}
	}
	return n
}
