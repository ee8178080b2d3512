// Package seq hands out strictly increasing request sequence numbers.
package seq

import "sync/atomic"

// Clock is a monotonic logical clock. Safe for concurrent use.
type Clock struct {
	n atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number. Every call returns a unique, larger value.
func (c *Clock) Next() int64 {
	return c.n.Add(1)
}

func (c *Clock) Current() int64 {
	return c.n.Load()
}

// Latest tracks the highest sequence number applied so far.
type Latest struct {
	n atomic.Int64
}

// Advance records seq if it is newer than anything applied and reports whether it was.
func (l *Latest) Advance(seq int64) bool {
	for {
		cur := l.n.Load()
		if seq <= cur {
			return false
		}
		if l.n.CompareAndSwap(cur, seq) {
			return true
		}
	}
}

func (l *Latest) Load() int64 {
	return l.n.Load()
}
