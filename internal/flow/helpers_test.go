package flow

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition not met before timeout")
	}
}

// recorder collects emitted values for assertions.
type recorder[T any] struct {
	mu  sync.Mutex
	got []T
}

func (r *recorder[T]) emit(v T) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func (r *recorder[T]) values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.got))
	copy(out, r.got)
	return out
}

func (r *recorder[T]) last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.got) == 0 {
		return zero, false
	}
	return r.got[len(r.got)-1], true
}

// countingObserver tallies observer callbacks.
type countingObserver struct {
	started    atomic.Int64
	committed  atomic.Int64
	rolledBack atomic.Int64
	superseded atomic.Int64
	issued     atomic.Int64
	applied    atomic.Int64
	discarded  atomic.Int64
	failed     atomic.Int64
}

func (o *countingObserver) AttemptStarted(string)                  { o.started.Add(1) }
func (o *countingObserver) AttemptCommitted(string, time.Duration) { o.committed.Add(1) }
func (o *countingObserver) AttemptRolledBack(string, error)        { o.rolledBack.Add(1) }
func (o *countingObserver) AttemptSuperseded(string)               { o.superseded.Add(1) }
func (o *countingObserver) QueryIssued(uint64)                     { o.issued.Add(1) }
func (o *countingObserver) QueryApplied(uint64, time.Duration)     { o.applied.Add(1) }
func (o *countingObserver) QueryDiscarded(uint64)                  { o.discarded.Add(1) }
func (o *countingObserver) QueryFailed(uint64, error)              { o.failed.Add(1) }
