// Package search debounces keystrokes into catalog queries.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a query fires.
const DefaultDelay = 500 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock schedules on the runtime timer.
func RealClock() Clock { return realClock{} }

// Debouncer owns at most one pending query. Each input cancels the pending
// query and schedules a new one, so a burst fires once with the last text.
type Debouncer struct {
	clock Clock
	query func(text string)

	mu      sync.Mutex
	pending Timer
	gen     uint64
	stopped bool
}

// New returns a debouncer that calls query. A nil clock uses RealClock.
func New(clock Clock, query func(text string)) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{clock: clock, query: query}
}

// OnInput replaces any pending query with one for text that fires after delay.
func (d *Debouncer) OnInput(text string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.clock.AfterFunc(delay, func() { d.fire(gen, text) })
}

func (d *Debouncer) fire(gen uint64, text string) {
	d.mu.Lock()
	// A callback that lost the race with Stop or a newer input does nothing.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.query(text)
}

// Pending reports whether a query is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending query. Later input is ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.stopped = true
	d.gen++
}
