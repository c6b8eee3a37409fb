// Package testutil holds shared test doubles.
package testutil

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source for tests.
//
// It stands in for time.Now wherever a component accepts an injected
// now function, so lock-expiry behavior can be driven deterministically
// instead of sleeping.
//
// Thread-safety: all methods are safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock frozen at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current instant without advancing.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
