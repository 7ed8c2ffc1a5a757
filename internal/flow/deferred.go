package flow

import (
	"sync"
	"time"
)

// Deferred coalesces repeated calls into a single invocation of the wrapped
// callback after a quiescence period. Each Call cancels the previously
// scheduled fire and re-schedules with the argument of this call, so the
// callback runs exactly once with the arguments of the last call in a
// burst.
//
// Used by: products page (coalesced UI preference writes)
type Deferred[A any] struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(A)

	timer   *time.Timer
	arg     A
	stopped bool
}

// NewDeferred wraps fn with a coalescing delay. A zero delay makes Call
// invoke fn synchronously.
func NewDeferred[A any](delay time.Duration, fn func(A)) *Deferred[A] {
	return &Deferred[A]{delay: delay, fn: fn}
}

// Call schedules fn(arg), replacing any previously scheduled invocation.
func (d *Deferred[A]) Call(arg A) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.arg = arg
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		fn := d.fn
		d.mu.Unlock()
		fn(arg)
		return
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

// Stop cancels any pending invocation. fn never runs after Stop; further
// Call calls are ignored. Safe to call from component teardown.
func (d *Deferred[A]) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

func (d *Deferred[A]) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	arg := d.arg
	fn := d.fn
	d.mu.Unlock()
	fn(arg)
}
