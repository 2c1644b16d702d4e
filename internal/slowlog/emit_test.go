package slowlog

// White-box test for the deferred-formatting guarantee: the line thunk
// must not run when the channel level rejects the severity, so the
// payload re-encoding cost is only paid for records that are written.

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/quayside/slowlog/internal/monitoring"
)

func TestEmit_ThunkOnlyRunsWhenLevelAccepts(t *testing.T) {
	channel := monitoring.NewChannelLogger(zerolog.New(io.Discard), "index")
	channel.SetLevel(zerolog.WarnLevel)

	calls := 0
	thunk := func() string {
		calls++
		return "line"
	}

	emit(channel, SeverityDebug, thunk)
	emit(channel, SeverityInfo, thunk)
	emit(channel, SeverityTrace, thunk)
	assert.Zero(t, calls, "formatter must not run for gated severities")

	emit(channel, SeverityWarn, thunk)
	assert.Equal(t, 1, calls, "formatter runs exactly once for an accepted severity")

	channel.SetLevel(zerolog.TraceLevel)
	emit(channel, SeverityDebug, thunk)
	assert.Equal(t, 2, calls, "lowering the level re-enables formatting")
}
