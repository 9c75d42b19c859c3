package session

import "time"

// Timer tracks elapsed play time. It starts on the first interaction, is a
// no-op on repeated starts, and freezes once stopped at the terminal state.
type Timer struct {
	now     func() time.Time
	started bool
	stopped bool
	startAt time.Time
	stopAt  time.Time
}

// NewTimer returns a wall-clock timer.
func NewTimer() *Timer {
	return NewTimerWithClock(time.Now)
}

// NewTimerWithClock allows deterministic timestamps in tests.
func NewTimerWithClock(now func() time.Time) *Timer {
	return &Timer{now: now}
}

// Start begins timing. Calling Start again is a no-op.
func (t *Timer) Start() {
	if t.started {
		return
	}
	t.started = true
	t.startAt = t.now()
}

// Stop freezes the elapsed time. Calling Stop again is a no-op.
func (t *Timer) Stop() {
	if !t.started || t.stopped {
		return
	}
	t.stopped = true
	t.stopAt = t.now()
}

// Reset returns the timer to its initial idle state.
func (t *Timer) Reset() {
	t.started = false
	t.stopped = false
	t.startAt = time.Time{}
	t.stopAt = time.Time{}
}

// Started reports whether the timer has begun.
func (t *Timer) Started() bool { return t.started }

// Elapsed returns whole seconds since Start, frozen at Stop. Zero before Start.
func (t *Timer) Elapsed() int {
	if !t.started {
		return 0
	}
	end := t.now()
	if t.stopped {
		end = t.stopAt
	}
	return int(end.Sub(t.startAt) / time.Second)
}
