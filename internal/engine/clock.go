package engine

import "sync/atomic"

// Sequencer hands out the tie-break numbers a Queue stamps on its items.
// Values must increase strictly.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic sequence counter.
//
// Every item pushed onto a Queue is stamped with the next value. Items at the
// same simulation time therefore come out in the order they were pushed, which
// keeps runs reproducible.
//
// Clock is safe for concurrent use, although an Engine only ever calls it from
// its Run loop.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
