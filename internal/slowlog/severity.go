// Package slowlog classifies the latency of individual write operations
// against per-severity thresholds and emits a formatted diagnostic line
// when one is exceeded.
//
// DESIGN: Small synchronous core, split by concern:
//   - severity.go:   Severity enum and zerolog mapping
//   - snapshot.go:   Immutable config snapshot + recognized-key schema
//   - classify.go:   Fixed-cascade threshold classifier (pure)
//   - format.go:     Diagnostic line builder (pure, never fails)
//   - controller.go: Atomic snapshot owner, applies live setting changes
//   - monitor.go:    Per-operation entry point with deferred formatting
//
// Thresholds, the minimum severity, and the reformat flag are all
// hot-reloadable; classification never blocks the write path.
package slowlog

import (
	"strings"

	"github.com/rs/zerolog"
)

// Severity is the emission level of a slow-operation record.
// Ordered by decreasing urgency: WARN > INFO > DEBUG > TRACE.
// TRACE is the most verbose level and logs the most.
type Severity int8

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
)

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARN"
	case SeverityInfo:
		return "INFO"
	case SeverityDebug:
		return "DEBUG"
	case SeverityTrace:
		return "TRACE"
	}
	return "UNKNOWN"
}

// Level maps the severity onto the zerolog level used for emission.
func (s Severity) Level() zerolog.Level {
	switch s {
	case SeverityWarn:
		return zerolog.WarnLevel
	case SeverityInfo:
		return zerolog.InfoLevel
	case SeverityDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// ParseSeverity parses a severity name case-insensitively.
// The second return is false for unrecognized names.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WARN":
		return SeverityWarn, true
	case "INFO":
		return SeverityInfo, true
	case "DEBUG":
		return SeverityDebug, true
	case "TRACE":
		return SeverityTrace, true
	}
	return SeverityTrace, false
}
