package slowlog_test

// Formatter Tests - Diagnostic Line Construction
//
// FormatLine is a total function: any byte sequence as payload either
// re-encodes to JSON text or degrades to the fixed failure marker.
// Field order and the name[value] shape are part of the contract.

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside/slowlog/internal/slowlog"
)

// TestFormatLine_FullRecord verifies the literal line shape.
func TestFormatLine_FullRecord(t *testing.T) {
	op := &slowlog.Operation{
		Kind:    slowlog.OpIndex,
		DocType: "tweet",
		DocID:   "123",
		Routing: "shard-1",
		Source:  []byte(`{"user":"kimchy"}`),
	}

	line := slowlog.FormatLine(op, 1200*time.Microsecond, false)
	assert.Equal(t,
		`took[1.2ms], took_millis[1], type[tweet], id[123], routing[shard-1], source[{"user":"kimchy"}]`,
		line)
}

// TestFormatLine_TookMillisTruncates verifies millisecond truncation,
// not rounding.
func TestFormatLine_TookMillisTruncates(t *testing.T) {
	op := &slowlog.Operation{DocType: "t", DocID: "1"}

	line := slowlog.FormatLine(op, 1999*time.Microsecond, false)
	assert.Contains(t, line, "took_millis[1]")

	line = slowlog.FormatLine(op, 2*time.Millisecond, false)
	assert.Contains(t, line, "took_millis[2]")
}

// TestFormatLine_EmptyRoutingAndSource verifies absent optional fields
// render as explicit empty markers.
func TestFormatLine_EmptyRoutingAndSource(t *testing.T) {
	op := &slowlog.Operation{Kind: slowlog.OpCreate, DocType: "tweet", DocID: "9"}

	line := slowlog.FormatLine(op, time.Millisecond, true)
	assert.Contains(t, line, "routing[]")
	assert.Contains(t, line, "source[]")
}

// TestFormatLine_MalformedSource verifies malformed payloads degrade
// to the fixed marker instead of failing.
func TestFormatLine_MalformedSource(t *testing.T) {
	payloads := [][]byte{
		[]byte("not json at all"),
		[]byte(`{"unclosed":`),
		{0x00, 0xff, 0xfe},
		[]byte(`{"a":1} trailing`),
	}
	for _, payload := range payloads {
		op := &slowlog.Operation{DocType: "t", DocID: "1", Source: payload}
		for _, reformat := range []bool{true, false} {
			var line string
			require.NotPanics(t, func() {
				line = slowlog.FormatLine(op, time.Millisecond, reformat)
			})
			assert.Contains(t, line, "source[_failed_to_convert_]",
				"payload %q reformat=%v", payload, reformat)
		}
	}
}

// TestFormatLine_ReformatRoundTrip verifies pretty and compact
// renderings carry the same logical content, differing only in layout.
func TestFormatLine_ReformatRoundTrip(t *testing.T) {
	source := []byte(`{"user":"kimchy","tags":["a","b"],"nested":{"n":1.5,"ok":true}}`)
	op := &slowlog.Operation{DocType: "tweet", DocID: "1", Source: source}

	compact := slowlog.FormatLine(op, time.Millisecond, false)
	pretty := slowlog.FormatLine(op, time.Millisecond, true)

	compactJSON := extractSource(t, compact)
	prettyJSON := extractSource(t, pretty)

	assert.JSONEq(t, string(source), compactJSON)
	assert.JSONEq(t, string(source), prettyJSON)
	assert.NotEqual(t, compactJSON, prettyJSON, "pretty output should differ in layout")
	assert.NotContains(t, compactJSON, "\n")
	assert.Contains(t, prettyJSON, "\n")
}

// TestFormatLine_ZeroValueFields verifies a zero-value record renders
// empty fields rather than failing.
func TestFormatLine_ZeroValueFields(t *testing.T) {
	line := slowlog.FormatLine(&slowlog.Operation{}, 0, true)
	assert.Equal(t, "took[0s], took_millis[0], type[], id[], routing[], source[]", line)
}

// extractSource pulls the source[...] payload back out of a line.
func extractSource(t *testing.T, line string) string {
	t.Helper()
	const marker = ", source["
	idx := strings.Index(line, marker)
	require.GreaterOrEqual(t, idx, 0, "line %q has no source field", line)
	require.Equal(t, byte(']'), line[len(line)-1])
	return line[idx+len(marker) : len(line)-1]
}

// TestFormatLine_DurationRendering spot-checks the human-readable took
// field across magnitudes.
func TestFormatLine_DurationRendering(t *testing.T) {
	op := &slowlog.Operation{DocType: "t", DocID: "1"}

	cases := []struct {
		took time.Duration
		want string
	}{
		{850 * time.Nanosecond, "took[850ns]"},
		{1200 * time.Microsecond, "took[1.2ms]"},
		{3 * time.Second, "took[3s]"},
		{90 * time.Second, "took[1m30s]"},
	}
	for _, tc := range cases {
		line := slowlog.FormatLine(op, tc.took, false)
		assert.Contains(t, line, tc.want, fmt.Sprintf("took=%v", tc.took))
	}
}
