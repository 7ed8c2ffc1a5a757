// Package flow provides the coordination primitives that sit between rapid
// user input and slow, possibly-failing backend operations.
//
// # Overview
//
// A TUI produces events far faster than the data store can answer them.
// Typing in a search box fires a keystroke every few tens of milliseconds;
// a SQLite query or a future sync backend can take arbitrarily long and can
// fail. This package reconciles the two worlds with a small set of
// primitives:
//
//   - Debouncer: delays a changing value until it has been quiet for a while
//   - Throttler: lets a changing value through at most once per interval
//   - Deferred: coalesces repeated calls into a single trailing invocation
//   - Mutation: optimistic apply / remote operation / commit-or-revert
//   - Search: debounced, generation-tagged queries with stale-result discard
//
// # Guarantees
//
//   - A burst of inputs collapses into a single effective action.
//   - Only the most recent in-flight result is ever applied; anything tagged
//     with an older generation is dropped on arrival.
//   - An optimistic update is reverted exactly once when its operation
//     fails, times out, or is superseded by a newer attempt.
//
// # Concurrency
//
// Each primitive owns its timers, generation counter and abort state
// exclusively; nothing is shared across instances. Cancellation is
// cooperative: superseding an in-flight operation does not stop it, it only
// marks its eventual settlement as stale. Every code path that resumes
// after a blocking call re-checks "am I still current?" before touching
// coordinator state.
//
// # Usage in Tally
//
// The products page feeds its search box through Search and saves UI
// preferences through Deferred; stock adjustments, deletions and sales go
// through Mutation via the inventory service; the sales page rate-limits
// manual refreshes with Throttler. The telemetry package observes attempt
// and query outcomes.
package flow
