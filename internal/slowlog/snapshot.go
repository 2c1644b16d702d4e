package slowlog

import "time"

// ThresholdDisabled is the sentinel for a threshold that never matches.
const ThresholdDisabled = time.Duration(-1)

// Snapshot is a fully-populated, immutable view of the monitor
// configuration. A snapshot is never mutated after construction; the
// Controller replaces the live snapshot wholesale, so readers either
// see the old configuration or the new one, never a mix.
type Snapshot struct {
	WarnThreshold  time.Duration
	InfoThreshold  time.Duration
	DebugThreshold time.Duration
	TraceThreshold time.Duration

	Level    Severity
	Reformat bool
}

// DefaultSnapshot returns the construction-time defaults: every
// threshold disabled, the most verbose minimum severity, and
// pretty-printed payload re-encoding.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		WarnThreshold:  ThresholdDisabled,
		InfoThreshold:  ThresholdDisabled,
		DebugThreshold: ThresholdDisabled,
		TraceThreshold: ThresholdDisabled,
		Level:          SeverityTrace,
		Reformat:       true,
	}
}

// Schema names the dynamic settings keys a Controller recognizes.
// It is built explicitly at startup and passed into NewController;
// there is no process-wide registry of dynamic keys.
type Schema struct {
	WarnKey  string
	InfoKey  string
	DebugKey string
	TraceKey string

	LevelKey    string
	ReformatKey string
}

// SchemaFor returns the schema for one monitored operation name,
// e.g. SchemaFor("index") recognizes "threshold.index.warn" through
// "threshold.index.trace" plus the shared "level" and "reformat" keys.
func SchemaFor(op string) Schema {
	prefix := "threshold." + op + "."
	return Schema{
		WarnKey:     prefix + "warn",
		InfoKey:     prefix + "info",
		DebugKey:    prefix + "debug",
		TraceKey:    prefix + "trace",
		LevelKey:    "level",
		ReformatKey: "reformat",
	}
}
