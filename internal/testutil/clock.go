package testutil

import (
	"sync"
	"time"
)

// SteppingClock provides a thread-safe deterministic time source for
// tests. Each call to Now advances the clock by a fixed step, so
// recorded timestamps are reproducible across runs.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type SteppingClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
}

// NewSteppingClock creates a clock starting at start, advancing by
// step per Now call.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{start: start, now: start, step: step}
}

// Now returns the current time and advances the clock by one step.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Reset rewinds the clock to its start time for test reuse.
func (c *SteppingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
