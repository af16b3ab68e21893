package engine

import "sync/atomic"

// Sequencer hands out the seq numbers that order notifications.
// testutil.DeterministicClock satisfies it for tests that reset between
// runs.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock for notification ordering.
//
// Every notification a Session emits carries a strictly increasing seq
// from its clock. Traces compare equal across runs because nothing here
// depends on wall time.
//
// Clock is safe for concurrent use, although a Session only ever calls it
// from its own goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
