package physics

import (
	"time"
)

// Clock advances the simulation in fixed steps.
//
// Time passed to Advance accumulates until at least one StepInterval is available.
// Leftover time is carried over to the next call.
type Clock struct {
	Elapsed   time.Duration
	Delta     time.Duration
	DeltaSecs float64

	StepInterval time.Duration

	overstep time.Duration
}

// Advance adds delta to the clock and calls step once for each full step interval.
// It returns the number of steps taken.
func (c *Clock) Advance(delta time.Duration, step func()) int {
	c.overstep += delta

	var steps int
	for c.overstep >= c.StepInterval {
		c.overstep -= c.StepInterval

		c.Elapsed += c.StepInterval
		c.Delta = c.StepInterval
		c.DeltaSecs = c.StepInterval.Seconds()

		step()
		steps += 1
	}

	return steps
}

// Seconds returns the elapsed simulation time in seconds.
func (c *Clock) Seconds() float64 {
	return c.Elapsed.Seconds()
}
