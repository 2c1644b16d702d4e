package slowlog

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// OpKind identifies the write operation that produced a record.
// Index and create are semantically equivalent for this subsystem.
type OpKind string

const (
	OpIndex  OpKind = "index"
	OpCreate OpKind = "create"
)

// Operation is the read-only metadata of one completed write
// operation. It is constructed by the write path, consumed
// synchronously, and never stored.
type Operation struct {
	Kind    OpKind
	DocType string
	DocID   string
	Routing string // empty when no routing key was supplied
	Source  []byte // raw payload, may be nil
}

// ConvertFailedMarker is substituted for the source field when the
// payload cannot be re-encoded as JSON.
const ConvertFailedMarker = "_failed_to_convert_"

// FormatLine renders the diagnostic line for a slow operation:
//
//	took[1.2ms], took_millis[1], type[tweet], id[123], routing[], source[{"user":"kimchy"}]
//
// took_millis truncates to whole milliseconds. The source field holds
// the payload re-encoded as JSON — pretty-printed when reformat is
// true, compact otherwise — or an empty marker when the payload is
// absent. FormatLine is total: malformed payloads degrade to
// ConvertFailedMarker, and zero-value fields render as empty.
func FormatLine(op *Operation, took time.Duration, reformat bool) string {
	if op == nil {
		op = &Operation{}
	}
	var sb strings.Builder
	sb.WriteString("took[")
	sb.WriteString(took.String())
	sb.WriteString("], took_millis[")
	sb.WriteString(strconv.FormatInt(took.Milliseconds(), 10))
	sb.WriteString("], type[")
	sb.WriteString(op.DocType)
	sb.WriteString("], id[")
	sb.WriteString(op.DocID)
	sb.WriteString("], routing[")
	sb.WriteString(op.Routing)
	sb.WriteString("], source[")
	sb.WriteString(renderSource(op.Source, reformat))
	sb.WriteString("]")
	return sb.String()
}

// renderSource re-encodes the raw payload as JSON text.
func renderSource(source []byte, reformat bool) string {
	if len(source) == 0 {
		return ""
	}
	if !gjson.ValidBytes(source) {
		return ConvertFailedMarker
	}
	if reformat {
		return strings.TrimSpace(string(pretty.Pretty(source)))
	}
	return string(pretty.Ugly(source))
}
