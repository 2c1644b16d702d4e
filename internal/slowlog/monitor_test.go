package slowlog_test

// Monitor Tests - Orchestration and the Backend Level Gate
//
// The monitor classifies, then hands the logging backend a deferred
// line. When the backend's active level rejects the severity, nothing
// is written (and emit_test.go verifies the formatter never ran).

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside/slowlog/internal/monitoring"
	"github.com/quayside/slowlog/internal/settings"
	"github.com/quayside/slowlog/internal/slowlog"
)

func newTestMonitor(t *testing.T, initial settings.View) (*slowlog.Monitor, *bytes.Buffer, *monitoring.MetricsCollector) {
	t.Helper()
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	indexLog := monitoring.NewChannelLogger(base, "index")
	deleteLog := monitoring.NewChannelLogger(base, "delete")
	metrics := monitoring.NewMetricsCollector()
	ctrl := slowlog.NewController(slowlog.SchemaFor("index"), initial, indexLog, deleteLog)
	return slowlog.NewMonitor(ctrl, indexLog, metrics), &buf, metrics
}

// TestMonitor_EmitsAtClassifiedSeverity verifies a slow operation
// produces one record at the cascade-selected severity.
func TestMonitor_EmitsAtClassifiedSeverity(t *testing.T) {
	mon, buf, metrics := newTestMonitor(t, settings.View{
		"threshold.index.warn": "100ms",
	})

	op := &slowlog.Operation{
		Kind:    slowlog.OpIndex,
		DocType: "tweet",
		DocID:   "123",
		Source:  []byte(`{"user":"kimchy"}`),
	}
	mon.OnOperationComplete(op, 250*time.Millisecond)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"channel":"index"`)
	assert.Contains(t, out, "type[tweet], id[123]")
	assert.Contains(t, out, "took_millis[250]")

	stats := metrics.Stats()
	assert.Equal(t, int64(1), stats["operations_evaluated"])
	assert.Equal(t, int64(1), stats["records_warn"])
}

// TestMonitor_FastOperationEmitsNothing verifies operations under
// every enabled threshold are silent.
func TestMonitor_FastOperationEmitsNothing(t *testing.T) {
	mon, buf, metrics := newTestMonitor(t, settings.View{
		"threshold.index.warn": "100ms",
		"threshold.index.info": "50ms",
	})

	mon.OnOperationComplete(&slowlog.Operation{DocType: "t", DocID: "1"}, 10*time.Millisecond)

	assert.Empty(t, buf.String())
	stats := metrics.Stats()
	assert.Equal(t, int64(1), stats["operations_evaluated"])
	assert.Zero(t, stats["records_warn"]+stats["records_info"])
}

// TestMonitor_BackendLevelGateSuppressesOutput covers the runtime
// level scenario: with the minimum severity raised to WARN, operations
// classifying DEBUG still go through classification but the backend
// writes nothing.
func TestMonitor_BackendLevelGateSuppressesOutput(t *testing.T) {
	mon, buf, metrics := newTestMonitor(t, settings.View{
		"threshold.index.debug": "10ms",
		"level":                 "WARN",
	})

	mon.OnOperationComplete(&slowlog.Operation{DocType: "t", DocID: "1"}, 20*time.Millisecond)

	assert.Empty(t, buf.String(), "debug record must be gated by the WARN channel level")
	assert.Equal(t, int64(1), metrics.Stats()["records_debug"],
		"classification still happens; only emission is gated")
}

// TestMonitor_ReformatFlagFlowsIntoLine verifies the snapshot's
// reformat flag selects compact vs pretty source rendering.
func TestMonitor_ReformatFlagFlowsIntoLine(t *testing.T) {
	mon, buf, _ := newTestMonitor(t, settings.View{
		"threshold.index.warn": "1ms",
		"reformat":             "false",
	})

	source := []byte(`{ "user" : "kimchy" }`)
	mon.OnOperationComplete(&slowlog.Operation{DocType: "t", DocID: "1", Source: source}, 5*time.Millisecond)

	assert.Contains(t, buf.String(), `source[{\"user\":\"kimchy\"}]`,
		"compact rendering strips payload whitespace")
}
