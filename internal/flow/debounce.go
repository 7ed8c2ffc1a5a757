package flow

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a changing value until it has been stable
// for a quiescence period. Rapid inputs collapse into a single emission
// carrying the last value of the burst.
//
// This is the same cancel-and-restart timer discipline the file watcher
// uses for change batching, generalized to a single typed value.
//
// Used by: Search (free-text query input), TUI search boxes
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	emit  func(T)

	timer   *time.Timer
	pending T
	value   T
	stopped bool
}

// NewDebouncer creates a debouncer. The initial value is visible through
// Value immediately, without a delay. emit is called with each settled
// value; it may be nil.
func NewDebouncer[T any](initial T, delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:   delay,
		emit:    emit,
		pending: initial,
		value:   initial,
	}
}

// Set records a new input. Any pending emission is cancelled and a fresh
// quiescence window starts. With a zero delay the value propagates
// synchronously.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.value = v
		emit := d.emit
		d.mu.Unlock()
		if emit != nil {
			emit(v)
		}
		return
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

// SetDelay changes the quiescence period. The new delay applies to the next
// scheduled emission, not to one already pending.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	d.mu.Lock()
	d.delay = delay
	d.mu.Unlock()
}

// Value returns the last settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Stop cancels any pending emission. Nothing emits after Stop; further Set
// calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

// fire runs when the quiescence window elapses without a newer input.
func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.pending
	d.value = v
	emit := d.emit
	d.mu.Unlock()
	if emit != nil {
		emit(v)
	}
}
