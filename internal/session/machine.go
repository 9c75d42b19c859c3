// Package session implements the per-game state machines. The three variants
// (grouping, wordle, quordle) are thin specializations of one shared machine:
// a phase FSM, an append-only attempt log, an attempt budget, and a timer
// that freezes at the terminal state. Mutations return a snapshot plus a list
// of effects; the transport/app layers subscribe to those rather than being
// called back from inside the machine.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"family-puzzles/internal/domain"
)

// Phase is the lifecycle position of a session.
type Phase string

const (
	PhaseLoading  Phase = "loading"
	PhaseActive   Phase = "active"
	PhaseWon      Phase = "won"
	PhaseLost     Phase = "lost"
	PhaseNotFound Phase = "notFound"
)

const (
	eventLoaded = "loaded"
	eventFailed = "failed"
	eventWin    = "win"
	eventLose   = "lose"
	eventReset  = "reset"
)

// Budgets per variant.
const (
	GroupingMaxMistakes = 4
	WordleMaxGuesses    = 6
	QuordleMaxGuesses   = 9
)

// Session is the surface common to all three variants.
type Session interface {
	Variant() domain.Variant
	Snapshot() Snapshot
}

// machine is the variant-independent core embedded by each session type.
type machine struct {
	fsm      *fsm.FSM
	variant  domain.Variant
	budget   int
	puzzleID string
	player   domain.Player
	attempts []domain.GuessAttempt
	timer    *Timer
	now      func() time.Time
}

func newMachine(variant domain.Variant, budget int, puzzleID string, player domain.Player, now func() time.Time) machine {
	return machine{
		fsm: fsm.NewFSM(
			string(PhaseLoading),
			fsm.Events{
				{Name: eventLoaded, Src: []string{string(PhaseLoading)}, Dst: string(PhaseActive)},
				{Name: eventFailed, Src: []string{string(PhaseLoading)}, Dst: string(PhaseNotFound)},
				{Name: eventWin, Src: []string{string(PhaseActive)}, Dst: string(PhaseWon)},
				{Name: eventLose, Src: []string{string(PhaseActive)}, Dst: string(PhaseLost)},
				{Name: eventReset, Src: []string{string(PhaseActive), string(PhaseWon), string(PhaseLost), string(PhaseNotFound)}, Dst: string(PhaseLoading)},
			},
			fsm.Callbacks{},
		),
		variant:  variant,
		budget:   budget,
		puzzleID: puzzleID,
		player:   player,
		timer:    NewTimerWithClock(now),
		now:      now,
	}
}

func (m *machine) phase() Phase {
	return Phase(m.fsm.Current())
}

// guardActive rejects operations outside the active phase. Submits on a
// terminal session are idempotent no-ops from the caller's point of view.
func (m *machine) guardActive() error {
	if m.phase() != PhaseActive {
		return domain.ErrGameFinished
	}
	return nil
}

// activate moves loading -> active; called once the puzzle data is installed.
func (m *machine) activate(ctx context.Context) error {
	return m.fsm.Event(ctx, eventLoaded)
}

// record appends one attempt to the solve path, stamping it with the clock.
// The log is append-only; nothing ever mutates or reorders entries.
func (m *machine) record(att domain.GuessAttempt) domain.GuessAttempt {
	att.TimestampMs = m.now().UnixMilli()
	m.attempts = append(m.attempts, att)
	return att
}

// finish stops the timer and enters the terminal phase.
func (m *machine) finish(ctx context.Context, won bool) {
	m.timer.Stop()
	event := eventLose
	if won {
		event = eventWin
	}
	_ = m.fsm.Event(ctx, event)
}

// resetCore clears all mutable state ahead of a replay of the same puzzle.
func (m *machine) resetCore(ctx context.Context) {
	_ = m.fsm.Event(ctx, eventReset)
	m.attempts = nil
	m.timer.Reset()
}

// baseRecord fills the variant-independent ResultRecord fields.
func (m *machine) baseRecord(won bool) domain.ResultRecord {
	path := make([]domain.GuessAttempt, len(m.attempts))
	copy(path, m.attempts)
	return domain.ResultRecord{
		ID:          uuid.NewString(),
		GameID:      m.puzzleID,
		Variant:     m.variant,
		UserID:      m.player.UserID,
		UserName:    m.player.UserName,
		CompletedAt: m.now(),
		TimeSeconds: m.timer.Elapsed(),
		Won:         won,
		SolvePath:   path,
	}
}

func (m *machine) attemptsCopy() []domain.GuessAttempt {
	out := make([]domain.GuessAttempt, len(m.attempts))
	copy(out, m.attempts)
	return out
}
