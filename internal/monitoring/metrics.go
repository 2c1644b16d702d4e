// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics:
//   - operations_evaluated:  Write operations run through the classifier
//   - records_*:             Slow-log records emitted per severity
//   - settings_applied:      Dynamic settings updates applied
//   - ingest_rejected:       Malformed or unknown ingest lines skipped
//
// For production, export these to Prometheus or similar.
package monitoring

import "sync/atomic"

// MetricsCollector collects operational metrics.
type MetricsCollector struct {
	evaluated       atomic.Int64
	recordsWarn     atomic.Int64
	recordsInfo     atomic.Int64
	recordsDebug    atomic.Int64
	recordsTrace    atomic.Int64
	settingsApplied atomic.Int64
	ingestRejected  atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordEvaluated records one operation run through the classifier.
func (mc *MetricsCollector) RecordEvaluated() { mc.evaluated.Add(1) }

// RecordEmitted records a slow-log record classified at the named
// severity (WARN, INFO, DEBUG, or TRACE).
func (mc *MetricsCollector) RecordEmitted(severity string) {
	switch severity {
	case "WARN":
		mc.recordsWarn.Add(1)
	case "INFO":
		mc.recordsInfo.Add(1)
	case "DEBUG":
		mc.recordsDebug.Add(1)
	case "TRACE":
		mc.recordsTrace.Add(1)
	}
}

// RecordSettingsApplied records one dynamic settings update.
func (mc *MetricsCollector) RecordSettingsApplied() { mc.settingsApplied.Add(1) }

// RecordIngestRejected records one skipped ingest line.
func (mc *MetricsCollector) RecordIngestRejected() { mc.ingestRejected.Add(1) }

// Stats returns current metrics.
func (mc *MetricsCollector) Stats() map[string]int64 {
	return map[string]int64{
		"operations_evaluated": mc.evaluated.Load(),
		"records_warn":         mc.recordsWarn.Load(),
		"records_info":         mc.recordsInfo.Load(),
		"records_debug":        mc.recordsDebug.Load(),
		"records_trace":        mc.recordsTrace.Load(),
		"settings_applied":     mc.settingsApplied.Load(),
		"ingest_rejected":      mc.ingestRejected.Load(),
	}
}
