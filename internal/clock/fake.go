package clock

import "time"

// FakeClock is a manually advanced clock for scheduler and metrics tests.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward. Not safe for concurrent use; tests drive
// the scheduler loop from a single goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
