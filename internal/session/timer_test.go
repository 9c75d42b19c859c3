package session

import (
	"testing"
	"time"
)

func TestTimerElapsedFloorsSeconds(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimerWithClock(clock.Now)
	timer.Start()
	clock.Advance(2900 * time.Millisecond)
	if got := timer.Elapsed(); got != 2 {
		t.Fatalf("Elapsed() = %d, want 2", got)
	}
}

func TestTimerStartIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimerWithClock(clock.Now)
	timer.Start()
	clock.Advance(5 * time.Second)
	timer.Start()
	if got := timer.Elapsed(); got != 5 {
		t.Fatalf("Elapsed() = %d, want 5", got)
	}
}

func TestTimerStopFreezes(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimerWithClock(clock.Now)
	timer.Start()
	clock.Advance(7 * time.Second)
	timer.Stop()
	clock.Advance(time.Minute)
	if got := timer.Elapsed(); got != 7 {
		t.Fatalf("Elapsed() after stop = %d, want 7", got)
	}
}

func TestTimerZeroBeforeStart(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimerWithClock(clock.Now)
	clock.Advance(time.Hour)
	if got := timer.Elapsed(); got != 0 {
		t.Fatalf("Elapsed() before start = %d, want 0", got)
	}
}

func TestTimerReset(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimerWithClock(clock.Now)
	timer.Start()
	clock.Advance(10 * time.Second)
	timer.Stop()
	timer.Reset()
	if timer.Started() {
		t.Fatal("Started() = true after reset")
	}
	timer.Start()
	clock.Advance(3 * time.Second)
	if got := timer.Elapsed(); got != 3 {
		t.Fatalf("Elapsed() after reset = %d, want 3", got)
	}
}
