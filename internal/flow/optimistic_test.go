package flow

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMutation_CommitPath(t *testing.T) {
	obs := &countingObserver{}
	m := NewMutation[string](obs)

	var applies, reverts, successes int
	result, err := m.Execute(context.Background(), Attempt[string]{
		Operation: func(ctx context.Context) (string, error) {
			return "created", nil
		},
		Apply:       func() { applies++ },
		Revert:      func() { reverts++ },
		OnSuccess:   func(string) { successes++ },
		Description: "create product",
	})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if result != "created" {
		t.Errorf("result = %q, want %q", result, "created")
	}
	if applies != 1 {
		t.Errorf("Apply called %d times, want 1", applies)
	}
	if reverts != 0 {
		t.Errorf("Revert called %d times on commit, want 0", reverts)
	}
	if successes != 1 {
		t.Errorf("OnSuccess called %d times, want 1", successes)
	}
	if m.IsOptimistic() {
		t.Error("IsOptimistic() still true after settlement")
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v after commit, want nil", m.Err())
	}
	if obs.committed.Load() != 1 || obs.rolledBack.Load() != 0 {
		t.Errorf("observer saw %d commits / %d rollbacks, want 1/0",
			obs.committed.Load(), obs.rolledBack.Load())
	}
}

func TestMutation_FailureRollsBackExactlyOnce(t *testing.T) {
	obs := &countingObserver{}
	m := NewMutation[string](obs)
	netErr := errors.New("NetworkError: connection refused")

	var reverts, errorCalls int
	_, err := m.Execute(context.Background(), Attempt[string]{
		Operation: func(ctx context.Context) (string, error) {
			return "", netErr
		},
		Apply:       func() {},
		Revert:      func() { reverts++ },
		OnError:     func(error) { errorCalls++ },
		Description: "delete product",
	})

	if !errors.Is(err, netErr) {
		t.Fatalf("Execute() error = %v, want the operation error", err)
	}
	if reverts != 1 {
		t.Errorf("Revert called %d times, want exactly 1", reverts)
	}
	if errorCalls != 1 {
		t.Errorf("OnError called %d times, want 1", errorCalls)
	}
	if m.Err() == nil || !strings.Contains(m.Err().Error(), "NetworkError") {
		t.Errorf("Err() = %v, want the underlying NetworkError", m.Err())
	}
	if m.IsOptimistic() {
		t.Error("IsOptimistic() still true after rollback")
	}
	if obs.rolledBack.Load() != 1 {
		t.Errorf("observer saw %d rollbacks, want 1", obs.rolledBack.Load())
	}
}

func TestMutation_TimeoutRollsBack(t *testing.T) {
	m := NewMutation[string](nil)

	var reverts int
	_, err := m.Execute(context.Background(), Attempt[string]{
		Operation: func(ctx context.Context) (string, error) {
			// Cooperative operation that honors cancellation.
			<-ctx.Done()
			return "", context.Cause(ctx)
		},
		Apply:       func() {},
		Revert:      func() { reverts++ },
		Description: "slow op",
		Timeout:     40 * time.Millisecond,
	})

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if reverts != 1 {
		t.Errorf("Revert called %d times, want 1", reverts)
	}
	if !errors.Is(m.Err(), ErrTimeout) {
		t.Errorf("Err() = %v, want ErrTimeout", m.Err())
	}
}

func TestMutation_SuccessAfterTimeoutStillRollsBack(t *testing.T) {
	// The operation ignores cancellation and eventually "succeeds", but the
	// attempt's token was already aborted: the result must not commit.
	m := NewMutation[string](nil)

	var reverts int
	_, err := m.Execute(context.Background(), Attempt[string]{
		Operation: func(ctx context.Context) (string, error) {
			time.Sleep(120 * time.Millisecond)
			return "late success", nil
		},
		Apply:       func() {},
		Revert:      func() { reverts++ },
		Description: "stubborn op",
		Timeout:     30 * time.Millisecond,
	})

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if reverts != 1 {
		t.Errorf("Revert called %d times, want 1", reverts)
	}
}

func TestMutation_SupersessionIsSilent(t *testing.T) {
	obs := &countingObserver{}
	m := NewMutation[int](obs)

	var firstReverts, secondReverts atomic.Int64
	firstStarted := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		_, err := m.Execute(context.Background(), Attempt[int]{
			Operation: func(ctx context.Context) (int, error) {
				close(firstStarted)
				<-ctx.Done()
				return 0, context.Cause(ctx)
			},
			Apply:       func() {},
			Revert:      func() { firstReverts.Add(1) },
			OnError:     func(error) { t.Error("superseded attempt surfaced an error callback") },
			Description: "first",
		})
		firstDone <- err
	}()

	<-firstStarted

	// A later call on the same instance supersedes the outstanding one.
	result, err := m.Execute(context.Background(), Attempt[int]{
		Operation: func(ctx context.Context) (int, error) {
			return 42, nil
		},
		Apply:       func() {},
		Revert:      func() { secondReverts.Add(1) },
		Description: "second",
	})
	if err != nil {
		t.Fatalf("second Execute() error = %v, want nil", err)
	}
	if result != 42 {
		t.Errorf("second result = %d, want 42", result)
	}

	firstErr := <-firstDone
	if !IsSuperseded(firstErr) {
		t.Fatalf("first Execute() error = %v, want ErrSuperseded", firstErr)
	}

	waitFor(t, time.Second, func() bool { return firstReverts.Load() == 1 })
	if secondReverts.Load() != 0 {
		t.Errorf("second attempt reverted %d times, want 0", secondReverts.Load())
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, supersession must not surface as a fault", m.Err())
	}
	if obs.superseded.Load() != 1 || obs.rolledBack.Load() != 0 {
		t.Errorf("observer saw %d supersessions / %d rollbacks, want 1/0",
			obs.superseded.Load(), obs.rolledBack.Load())
	}
}

func TestMutation_ClearErr(t *testing.T) {
	m := NewMutation[string](nil)

	_, _ = m.Execute(context.Background(), Attempt[string]{
		Operation: func(ctx context.Context) (string, error) {
			return "", errors.New("boom")
		},
		Apply:  func() {},
		Revert: func() {},
	})

	if m.Err() == nil {
		t.Fatal("expected an error before ClearErr")
	}
	m.ClearErr()
	if m.Err() != nil {
		t.Errorf("Err() = %v after ClearErr, want nil", m.Err())
	}
}

func TestMutation_StopAbortsSilently(t *testing.T) {
	m := NewMutation[int](nil)

	var reverts atomic.Int64
	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := m.Execute(context.Background(), Attempt[int]{
			Operation: func(ctx context.Context) (int, error) {
				close(started)
				<-ctx.Done()
				return 0, context.Cause(ctx)
			},
			Apply:  func() {},
			Revert: func() { reverts.Add(1) },
		})
		done <- err
	}()

	<-started
	m.Stop()

	err := <-done
	if !IsSuperseded(err) {
		t.Fatalf("Execute() after Stop = %v, want ErrSuperseded", err)
	}
	waitFor(t, time.Second, func() bool { return reverts.Load() == 1 })
	if m.Err() != nil {
		t.Errorf("Err() = %v after Stop, want nil", m.Err())
	}
	if m.IsOptimistic() {
		t.Error("IsOptimistic() true after Stop")
	}
}
