package flow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultTimeout bounds an attempt whose caller did not set one.
const DefaultTimeout = 30 * time.Second

// Attempt describes one optimistic mutation: apply a local state change
// immediately, run the remote operation, and commit or revert on settlement.
//
// Apply and Revert are caller-authored closures over the caller's own
// presented state. Revert must be idempotent against *current* state, not
// just the pre-image: by the time it runs, a newer attempt may already have
// applied its own optimistic change. Panics inside Apply or Revert are not
// swallowed; they belong to the caller.
type Attempt[T any] struct {
	// Operation performs the actual remote work. It must respect ctx;
	// cancellation is cooperative and only marks the settlement stale.
	Operation func(ctx context.Context) (T, error)

	// Apply performs the optimistic update, synchronously, before the
	// operation runs.
	Apply func()

	// Revert undoes the optimistic update. Called exactly once per failed,
	// timed-out or superseded attempt; never called on commit.
	Revert func()

	// OnSuccess, if set, receives the result on the commit path.
	OnSuccess func(T)

	// OnError, if set, receives the normalized failure. Not called for
	// supersession.
	OnError func(error)

	// Description names the attempt for telemetry.
	Description string

	// Timeout bounds the operation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Mutation coordinates optimistic mutations with a single-in-flight
// invariant: a later Execute on the same instance always supersedes an
// earlier one still outstanding.
//
// State machine per attempt: Idle -> Optimistic -> {Committed, RolledBack}.
//
// Used by: app.InventoryService (stock adjustment, deletion, sales)
type Mutation[T any] struct {
	mu       sync.Mutex
	gen      Generation
	cancel   context.CancelCauseFunc
	pending  bool
	err      error
	observer Observer
}

// NewMutation creates a coordinator. observer may be nil.
func NewMutation[T any](observer Observer) *Mutation[T] {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Mutation[T]{observer: observer}
}

// Execute runs one attempt to settlement and returns its result.
//
// It blocks until the operation settles, so callers run it off the UI
// goroutine (a tea.Cmd in the TUI). On commit it returns (result, nil). On
// failure or timeout it returns the zero value and the normalized error,
// which is also visible through Err until cleared. On supersession it
// returns ErrSuperseded and leaves Err untouched; the newer attempt owns
// the visible state now.
func (m *Mutation[T]) Execute(ctx context.Context, a Attempt[T]) (T, error) {
	var zero T

	m.mu.Lock()
	if m.cancel != nil {
		// Single-in-flight invariant: abort the outstanding attempt. Its
		// own continuation reverts it when its operation settles.
		m.cancel(ErrSuperseded)
		m.cancel = nil
	}
	id := m.gen.Next()
	opCtx, cancel := context.WithCancelCause(ctx)
	m.cancel = cancel
	m.pending = true
	m.err = nil
	m.mu.Unlock()

	// Optimistic update happens before any round trip. Synchronous; panics
	// propagate to the caller.
	a.Apply()
	m.observer.AttemptStarted(a.Description)

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	watchdog := time.AfterFunc(timeout, func() {
		cancel(ErrTimeout)
	})

	started := time.Now()
	result, opErr := a.Operation(opCtx)
	watchdog.Stop()

	m.mu.Lock()
	if !m.gen.IsCurrent(id) {
		// A newer Execute took over while we were suspended. Revert our
		// own optimistic effect and get out without touching state that
		// now belongs to the newer attempt.
		m.mu.Unlock()
		a.Revert()
		m.observer.AttemptSuperseded(a.Description)
		return zero, ErrSuperseded
	}

	m.cancel = nil
	m.pending = false

	cause := context.Cause(opCtx)
	if opErr == nil && opCtx.Err() == nil {
		// Commit path: Revert is never called.
		m.mu.Unlock()
		m.observer.AttemptCommitted(a.Description, time.Since(started))
		if a.OnSuccess != nil {
			a.OnSuccess(result)
		}
		return result, nil
	}

	failure := normalizeFailure(cause, opErr)
	if IsSuperseded(failure) {
		// Stop raced with settlement. Silent, like any supersession.
		m.mu.Unlock()
		a.Revert()
		m.observer.AttemptSuperseded(a.Description)
		return zero, ErrSuperseded
	}

	m.err = failure
	m.mu.Unlock()
	a.Revert()
	m.observer.AttemptRolledBack(a.Description, failure)
	if a.OnError != nil {
		a.OnError(failure)
	}
	return zero, failure
}

// IsOptimistic reports whether an attempt is outstanding, i.e. an
// optimistic update is visible that has not been committed or reverted yet.
func (m *Mutation[T]) IsOptimistic() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Err returns the last attempt's failure, or nil. Supersession never shows
// up here.
func (m *Mutation[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// ClearErr resets the visible error without affecting in-flight state.
func (m *Mutation[T]) ClearErr() {
	m.mu.Lock()
	m.err = nil
	m.mu.Unlock()
}

// Stop aborts any outstanding attempt. The attempt reverts itself when its
// operation settles, silently. Used on owner teardown.
func (m *Mutation[T]) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		// Bump the generation so the settling attempt sees itself stale.
		m.gen.Next()
		m.cancel(ErrSuperseded)
		m.cancel = nil
		m.pending = false
	}
	m.mu.Unlock()
}

// normalizeFailure picks the error kind for a failed attempt: timeout and
// supersession causes win over whatever the operation itself returned.
func normalizeFailure(cause, opErr error) error {
	switch {
	case errors.Is(cause, ErrTimeout):
		return ErrTimeout
	case errors.Is(cause, ErrSuperseded):
		return ErrSuperseded
	case opErr != nil:
		return opErr
	case cause != nil:
		return cause
	default:
		return context.Canceled
	}
}
