// Package testutil provides shared test doubles.
package testutil

import (
	"sync"
	"time"

	"github.com/roach88/linkback/internal/ttl"
)

// Clock is a manually-advanced time source for tests.
//
// Unlike ttl.System, Clock only moves when Advance or Set is called,
// so expiry behaviour can be tested without sleeping.
//
// Thread-safety: all methods are safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

var _ ttl.Source = (*Clock)(nil)

// NewClock creates a clock frozen at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now implements ttl.Source.
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

// Set jumps the clock to a specific instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
