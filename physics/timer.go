package physics

import (
	"time"
)

// Timer finishes once after the given duration has passed.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration

	finished     bool
	justFinished bool
}

func NewTimer(duration time.Duration) Timer {
	return Timer{duration: duration}
}

// Tick adds the given amount of time to the Timer.
func (t *Timer) Tick(delta time.Duration) *Timer {
	t.justFinished = false

	if t.finished {
		return t
	}

	t.elapsed = min(t.elapsed+delta, t.duration)

	if t.elapsed >= t.duration {
		t.finished = true
		t.justFinished = true
	}

	return t
}

func (t *Timer) Finished() bool {
	return t.finished
}

// JustFinished returns true if the Timer finished during the last Tick.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}
