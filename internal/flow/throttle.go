package flow

import (
	"sync"
	"time"
)

// Throttler propagates a changing value at most once per interval. The
// first change after a quiet period emits immediately; changes arriving
// inside the interval collapse into a single trailing emission carrying
// whatever value is current at fire time, never an intermediate one.
//
// Used by: sales page (rate-limited history refresh)
type Throttler[T any] struct {
	mu       sync.Mutex
	interval time.Duration
	emit     func(T)

	timer    *time.Timer
	latest   T
	value    T
	lastEmit time.Time
	stopped  bool
}

// NewThrottler creates a throttler. The initial value is visible through
// Value immediately. emit may be nil.
func NewThrottler[T any](initial T, interval time.Duration, emit func(T)) *Throttler[T] {
	return &Throttler[T]{
		interval: interval,
		emit:     emit,
		latest:   initial,
		value:    initial,
	}
}

// Set records a new input. Emits immediately on the leading edge, otherwise
// schedules (or re-targets) the single trailing emission.
func (t *Throttler[T]) Set(v T) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.latest = v

	elapsed := time.Since(t.lastEmit)
	if t.lastEmit.IsZero() || elapsed >= t.interval {
		// Leading edge: a full interval has passed since the last emission.
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.value = v
		t.lastEmit = time.Now()
		emit := t.emit
		t.mu.Unlock()
		if emit != nil {
			emit(v)
		}
		return
	}

	// Inside the interval: replace any pending trailing timer. The timer
	// reads latest at fire time, so re-scheduling is only about the delay.
	if t.timer != nil {
		t.timer.Stop()
	}
	wait := t.interval - elapsed
	if wait < 0 {
		// Boundary case: fire on the next available tick.
		wait = 0
	}
	t.timer = time.AfterFunc(wait, t.fire)
	t.mu.Unlock()
}

// SetInterval changes the rate limit. Takes effect for the next scheduling
// decision.
func (t *Throttler[T]) SetInterval(interval time.Duration) {
	t.mu.Lock()
	t.interval = interval
	t.mu.Unlock()
}

// Value returns the last emitted value.
func (t *Throttler[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Stop cancels any pending trailing emission. Nothing emits after Stop.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

// fire runs the trailing emission with the latest value at fire time.
func (t *Throttler[T]) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	v := t.latest
	t.value = v
	t.lastEmit = time.Now()
	emit := t.emit
	t.mu.Unlock()
	if emit != nil {
		emit(v)
	}
}
