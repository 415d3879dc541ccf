package sim

import (
	"math"
	"time"

	"github.com/iburimskiy/gasmaster/internal/config"
)

// Clock turns host timestamps into bounded frame deltas in seconds.
type Clock struct {
	maxDelta float64
	last     time.Duration
	started  bool
}

func NewClock(maxDelta float64) *Clock {
	if !(maxDelta >= config.MinDelta) {
		maxDelta = config.MinDelta
	}
	return &Clock{maxDelta: maxDelta}
}

// Step records now and returns the elapsed seconds since the previous
// step. The first step returns 0. A clock that stalls or runs backwards
// yields MinDelta; a long suspension is cut down to maxDelta.
func (c *Clock) Step(now time.Duration) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := (now - c.last).Seconds()
	c.last = now
	return clampDelta(dt, c.maxDelta)
}

// Reset forgets the previous timestamp.
func (c *Clock) Reset() {
	c.started = false
}

func clampDelta(dt, maxDelta float64) float64 {
	switch {
	case math.IsNaN(dt), dt <= 0:
		return config.MinDelta
	case dt > maxDelta:
		return maxDelta
	}
	return dt
}
