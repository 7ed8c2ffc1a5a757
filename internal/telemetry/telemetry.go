// Package telemetry is the fire-and-forget sink for coordination events:
// Prometheus counters plus structured logging. It implements flow.Observer.
//
// Nothing in here is on a contract: the coordinators never wait on the sink
// and never fail because of it.
package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/oakmere/tally/internal/flow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Sink counts coordinator activity and logs failures.
type Sink struct {
	logger *zap.Logger

	attemptsStarted    prometheus.Counter
	attemptsCommitted  prometheus.Counter
	attemptsRolledBack prometheus.Counter
	attemptsSuperseded prometheus.Counter
	attemptDuration    prometheus.Histogram

	queriesIssued    prometheus.Counter
	queriesApplied   prometheus.Counter
	queriesDiscarded prometheus.Counter
	queriesFailed    prometheus.Counter
}

var _ flow.Observer = (*Sink)(nil)

// New creates a sink registered on reg. logger may be nil, reg may be nil
// (metrics then register on the default registry).
func New(logger *zap.Logger, reg prometheus.Registerer) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := counterFactory(reg)
	return &Sink{
		logger:             logger,
		attemptsStarted:    factory("tally_mutation_attempts_started_total", "Optimistic mutation attempts started."),
		attemptsCommitted:  factory("tally_mutation_attempts_committed_total", "Attempts whose operation succeeded."),
		attemptsRolledBack: factory("tally_mutation_attempts_rolled_back_total", "Attempts reverted after failure or timeout."),
		attemptsSuperseded: factory("tally_mutation_attempts_superseded_total", "Attempts invalidated by a newer call."),
		attemptDuration: newHistogram(reg, "tally_mutation_attempt_seconds",
			"Committed attempt duration in seconds."),
		queriesIssued:    factory("tally_search_queries_issued_total", "Generation-tagged search queries dispatched."),
		queriesApplied:   factory("tally_search_queries_applied_total", "Responses applied to visible state."),
		queriesDiscarded: factory("tally_search_queries_discarded_total", "Stale responses dropped on arrival."),
		queriesFailed:    factory("tally_search_queries_failed_total", "Current-generation queries that errored."),
	}
}

// AttemptStarted implements flow.Observer.
func (s *Sink) AttemptStarted(description string) {
	s.attemptsStarted.Inc()
	s.logger.Debug("attempt started", zap.String("attempt", description))
}

// AttemptCommitted implements flow.Observer.
func (s *Sink) AttemptCommitted(description string, took time.Duration) {
	s.attemptsCommitted.Inc()
	s.attemptDuration.Observe(took.Seconds())
	s.logger.Info("attempt committed",
		zap.String("attempt", description),
		zap.Duration("took", took))
}

// AttemptRolledBack implements flow.Observer.
func (s *Sink) AttemptRolledBack(description string, err error) {
	s.attemptsRolledBack.Inc()
	s.logger.Warn("attempt rolled back",
		zap.String("attempt", description),
		zap.Error(err))
}

// AttemptSuperseded implements flow.Observer. Logged at debug only; this is
// expected coordination, not a failure.
func (s *Sink) AttemptSuperseded(description string) {
	s.attemptsSuperseded.Inc()
	s.logger.Debug("attempt superseded", zap.String("attempt", description))
}

// QueryIssued implements flow.Observer.
func (s *Sink) QueryIssued(generation uint64) {
	s.queriesIssued.Inc()
	s.logger.Debug("query issued", zap.Uint64("generation", generation))
}

// QueryApplied implements flow.Observer.
func (s *Sink) QueryApplied(generation uint64, took time.Duration) {
	s.queriesApplied.Inc()
	s.logger.Debug("query applied",
		zap.Uint64("generation", generation),
		zap.Duration("took", took))
}

// QueryDiscarded implements flow.Observer.
func (s *Sink) QueryDiscarded(generation uint64) {
	s.queriesDiscarded.Inc()
	s.logger.Debug("stale query discarded", zap.Uint64("generation", generation))
}

// QueryFailed implements flow.Observer.
func (s *Sink) QueryFailed(generation uint64, err error) {
	s.queriesFailed.Inc()
	s.logger.Warn("query failed",
		zap.Uint64("generation", generation),
		zap.Error(err))
}

// Serve exposes /metrics on addr in a background goroutine. Errors are
// logged, never fatal: the shop keeps running without metrics.
func Serve(addr string, logger *zap.Logger, g prometheus.Gatherer) {
	if addr == "" {
		return
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()
}

// counterFactory returns a counter constructor bound to reg.
func counterFactory(reg prometheus.Registerer) func(name, help string) prometheus.Counter {
	return func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
		reg.MustRegister(c)
		return c
	}
}

func newHistogram(reg prometheus.Registerer, name, help string) prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(h)
	return h
}

// NewLogger builds the file-backed zap logger. The TUI owns the terminal,
// so logs always go to a file.
func NewLogger(path string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
