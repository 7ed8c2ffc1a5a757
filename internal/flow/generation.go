package flow

import "sync/atomic"

// Generation is a monotonically increasing counter identifying "the current
// attempt" of a single coordinator. Exactly one generation is current at any
// time; results tagged with an older generation are discarded on arrival.
//
// Each coordinator owns its own Generation. The zero value is ready to use.
type Generation struct {
	n atomic.Uint64
}

// Next advances the counter and returns the new current generation.
// Everything issued under a previous generation becomes stale.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current returns the current generation without advancing it.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// IsCurrent reports whether id is still the current generation.
// Must be re-checked after every blocking call before mutating state.
func (g *Generation) IsCurrent(id uint64) bool {
	return g.n.Load() == id
}
