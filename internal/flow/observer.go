package flow

import "time"

// Observer receives fire-and-forget notifications about coordinator
// activity. Implementations must not block; there is no delivery contract.
//
// Used by: telemetry package (Prometheus counters + zap logging)
type Observer interface {
	// AttemptStarted fires when a mutation's optimistic update has been
	// applied and its operation is about to run.
	AttemptStarted(description string)

	// AttemptCommitted fires when the operation succeeded and the
	// optimistic update stands.
	AttemptCommitted(description string, took time.Duration)

	// AttemptRolledBack fires when the operation failed or timed out and
	// the optimistic update was reverted.
	AttemptRolledBack(description string, err error)

	// AttemptSuperseded fires when a newer Execute invalidated this
	// attempt. Not a failure.
	AttemptSuperseded(description string)

	// QueryIssued fires when a search coordinator dispatches a request.
	QueryIssued(generation uint64)

	// QueryApplied fires when a response matched the current generation
	// and was applied to visible state.
	QueryApplied(generation uint64, took time.Duration)

	// QueryDiscarded fires when a stale response arrived and was dropped.
	QueryDiscarded(generation uint64)

	// QueryFailed fires when the current generation's query returned an
	// error.
	QueryFailed(generation uint64, err error)
}

// NopObserver ignores everything. Used when no telemetry sink is wired.
type NopObserver struct{}

func (NopObserver) AttemptStarted(string)                  {}
func (NopObserver) AttemptCommitted(string, time.Duration) {}
func (NopObserver) AttemptRolledBack(string, error)        {}
func (NopObserver) AttemptSuperseded(string)               {}
func (NopObserver) QueryIssued(uint64)                     {}
func (NopObserver) QueryApplied(uint64, time.Duration)     {}
func (NopObserver) QueryDiscarded(uint64)                  {}
func (NopObserver) QueryFailed(uint64, error)              {}
