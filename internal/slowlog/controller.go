package slowlog

import (
	"sync"
	"sync/atomic"

	"github.com/quayside/slowlog/internal/monitoring"
	"github.com/quayside/slowlog/internal/settings"
)

// Controller owns the live configuration Snapshot.
//
// Reads are lock-free: Current() loads an atomic pointer, so the write
// path never blocks on a configuration update. Writers serialize on a
// mutex and publish a brand-new snapshot as one indivisible swap —
// concurrent readers see either the old configuration or the new one,
// never a mix of fields from both.
type Controller struct {
	schema Schema

	mu   sync.Mutex // serializes ApplySettings
	snap atomic.Pointer[Snapshot]

	indexLog  *monitoring.ChannelLogger
	deleteLog *monitoring.ChannelLogger
}

// NewController creates a controller with the built-in defaults (all
// thresholds disabled, level TRACE, reformat on), overridden by the
// initial settings view. The recognized dynamic keys come from the
// schema; unrecognized keys in any view are ignored. The index and
// delete channel levels are initialized (and thereafter kept in
// lockstep) with the minimum severity.
func NewController(schema Schema, initial settings.View, indexLog, deleteLog *monitoring.ChannelLogger) *Controller {
	c := &Controller{
		schema:    schema,
		indexLog:  indexLog,
		deleteLog: deleteLog,
	}
	snap := DefaultSnapshot()
	c.snap.Store(&snap)
	c.pushLevel(snap.Level)
	if len(initial) > 0 {
		c.ApplySettings(initial)
	}
	return c
}

// Current returns the live snapshot. The returned value is immutable;
// callers must not modify it.
func (c *Controller) Current() *Snapshot {
	return c.snap.Load()
}

// ApplySettings recomputes the snapshot from a complete settings view.
// Each recognized key falls back to its previous value when absent or
// unparsable; a changed minimum severity is pushed to both the index
// and delete channels before the new snapshot is published.
func (c *Controller) ApplySettings(v settings.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.snap.Load()
	next := *prev

	next.WarnThreshold = v.Duration(c.schema.WarnKey, prev.WarnThreshold)
	next.InfoThreshold = v.Duration(c.schema.InfoKey, prev.InfoThreshold)
	next.DebugThreshold = v.Duration(c.schema.DebugKey, prev.DebugThreshold)
	next.TraceThreshold = v.Duration(c.schema.TraceKey, prev.TraceThreshold)

	if level, ok := ParseSeverity(v.String(c.schema.LevelKey, "")); ok && level != prev.Level {
		next.Level = level
		c.pushLevel(level)
	}

	next.Reformat = v.Bool(c.schema.ReformatKey, prev.Reformat)

	c.snap.Store(&next)
}

// pushLevel keeps both output channels at the same minimum severity.
func (c *Controller) pushLevel(level Severity) {
	if c.indexLog != nil {
		c.indexLog.SetLevel(level.Level())
	}
	if c.deleteLog != nil {
		c.deleteLog.SetLevel(level.Level())
	}
}
