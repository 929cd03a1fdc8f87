// Package clock provides the wall-clock and elapsed-time source used by sessions.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock reads time for the session controller. Persisted timestamps come from
// Now; on-screen durations come from Elapsed so that a real clock measures them
// with the monotonic reading carried in the start time.
type Clock interface {
	Now() time.Time
	Elapsed(since time.Time) time.Duration
}

type clock struct {
	base clockwork.Clock
}

// New wraps a clockwork clock.
func New(base clockwork.Clock) Clock {
	return &clock{base: base}
}

// Real returns a Clock backed by the system clock.
func Real() Clock {
	return New(clockwork.NewRealClock())
}

func (c *clock) Now() time.Time {
	return c.base.Now()
}

func (c *clock) Elapsed(since time.Time) time.Duration {
	d := c.base.Since(since)
	if d < 0 {
		return 0
	}
	return d
}
