// Package search coalesces bursts of free-text input into one trailing
// query once typing pauses.
package search

import (
	"sync"
	"time"

	"jobboard-engine/internal/clock"
)

const DefaultWindow = 300 * time.Millisecond

// Debouncer delivers the last input of a burst to fn after window has
// passed with no further input. A callback whose timer was superseded
// or closed never runs, even if its timer already fired.
type Debouncer struct {
	clock  clock.Clock
	window time.Duration
	fn     func(string)

	mu     sync.Mutex
	gen    uint64
	timer  clock.Timer
	closed bool
}

func NewDebouncer(c clock.Clock, window time.Duration, fn func(string)) *Debouncer {
	if c == nil {
		c = clock.Real()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{clock: c, window: window, fn: fn}
}

// Input discards any pending invocation and schedules fn(q).
func (d *Debouncer) Input(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen, q) })
}

func (d *Debouncer) fire(gen uint64, q string) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(q)
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.timer != nil
}

// Cancel drops the pending invocation, if any. Later Input calls still
// schedule normally.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close cancels the pending invocation. Later Input calls are ignored.
// A callback already past its timer may still be running; callers that
// need a hard stop guard fn themselves.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
