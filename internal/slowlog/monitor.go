package slowlog

import (
	"time"

	"github.com/quayside/slowlog/internal/monitoring"
)

// Monitor is the per-operation entry point. The write path calls
// OnOperationComplete synchronously after every finished write; the
// monitor does bounded local work only and never returns an error to
// the caller.
type Monitor struct {
	ctrl     *Controller
	indexLog *monitoring.ChannelLogger
	metrics  *monitoring.MetricsCollector
}

// NewMonitor creates a monitor emitting through the index channel.
// metrics may be nil.
func NewMonitor(ctrl *Controller, indexLog *monitoring.ChannelLogger, metrics *monitoring.MetricsCollector) *Monitor {
	return &Monitor{ctrl: ctrl, indexLog: indexLog, metrics: metrics}
}

// OnOperationComplete classifies one finished write operation and, if
// a threshold was exceeded, emits a slow-log record at the matching
// severity. The diagnostic line is built lazily: the formatter runs
// only when the channel's active level actually accepts the severity,
// so re-encoding the payload costs nothing for suppressed records.
func (m *Monitor) OnOperationComplete(op *Operation, took time.Duration) {
	if m.metrics != nil {
		m.metrics.RecordEvaluated()
	}

	snap := m.ctrl.Current()
	severity, ok := Classify(took, snap)
	if !ok {
		return
	}
	if m.metrics != nil {
		m.metrics.RecordEmitted(severity.String())
	}

	reformat := snap.Reformat
	emit(m.indexLog, severity, func() string {
		return FormatLine(op, took, reformat)
	})
}

// emit sends a deferred-formatted line at the given severity. The
// thunk is evaluated only when the channel will actually write the
// event.
func emit(channel *monitoring.ChannelLogger, severity Severity, line func() string) {
	if e := channel.WithLevel(severity.Level()); e.Enabled() {
		e.Msg(line())
	}
}
