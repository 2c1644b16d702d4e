package slowlog

import "time"

// Classify decides whether an operation that took the given duration
// warrants a record, and at which severity.
//
// Thresholds are checked as a fixed cascade — WARN, then INFO, then
// DEBUG, then TRACE — and the first enabled threshold that the
// duration strictly exceeds wins. This is deliberately NOT "highest
// exceeded threshold": a configured WARN threshold always takes
// priority over the lower-severity ones, even when an operator has set
// a larger INFO threshold that would also match. Comparison is strict
// greater-than; a duration equal to a threshold does not match it.
//
// The second return is false when no enabled threshold is exceeded.
func Classify(took time.Duration, snap *Snapshot) (Severity, bool) {
	switch {
	case snap.WarnThreshold >= 0 && took > snap.WarnThreshold:
		return SeverityWarn, true
	case snap.InfoThreshold >= 0 && took > snap.InfoThreshold:
		return SeverityInfo, true
	case snap.DebugThreshold >= 0 && took > snap.DebugThreshold:
		return SeverityDebug, true
	case snap.TraceThreshold >= 0 && took > snap.TraceThreshold:
		return SeverityTrace, true
	}
	return SeverityTrace, false
}
