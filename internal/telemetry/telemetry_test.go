package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := New(nil, reg)

	sink.AttemptStarted("adjust stock")
	sink.AttemptCommitted("adjust stock", 5*time.Millisecond)
	sink.AttemptStarted("delete product")
	sink.AttemptRolledBack("delete product", errors.New("boom"))
	sink.AttemptSuperseded("delete product")

	sink.QueryIssued(1)
	sink.QueryIssued(2)
	sink.QueryApplied(2, time.Millisecond)
	sink.QueryDiscarded(1)
	sink.QueryFailed(3, errors.New("db locked"))

	assert.Equal(t, float64(2), testutil.ToFloat64(sink.attemptsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.attemptsCommitted))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.attemptsRolledBack))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.attemptsSuperseded))
	assert.Equal(t, float64(2), testutil.ToFloat64(sink.queriesIssued))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.queriesApplied))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.queriesDiscarded))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.queriesFailed))
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := t.TempDir() + "/tally.log"
	logger, err := NewLogger(path, true)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())
}
