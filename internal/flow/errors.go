package flow

import "errors"

// ErrTimeout marks an operation that did not settle within its deadline.
// It is terminal for the attempt: the optimistic update is reverted and the
// error is surfaced through Mutation.Err.
var ErrTimeout = errors.New("operation timed out")

// ErrSuperseded marks an attempt that was invalidated by a newer call on
// the same coordinator. This is expected coordination, not a fault: the
// optimistic update is still reverted, but the error is never stored in
// coordinator state and never reported to the observer as a failure.
var ErrSuperseded = errors.New("superseded by a newer attempt")

// IsSuperseded reports whether err represents silent supersession.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
