// Package ingest feeds completed-operation events into the slow-log
// monitor.
//
// DESIGN: One JSON object per line, from stdin or a TCP listener:
//
//	{"kind":"index","type":"tweet","id":"123","routing":"r1",
//	 "source":{"user":"kimchy"},"took_nanos":1234567}
//
// Malformed lines and unknown kinds are counted and skipped; nothing
// on this path ever aborts the reader.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/quayside/slowlog/internal/monitoring"
	"github.com/quayside/slowlog/internal/slowlog"
)

// maxLineBytes bounds a single event line (large documents inline
// their whole payload in "source").
const maxLineBytes = 4 * 1024 * 1024

// Reader parses operation events and hands them to the monitor.
type Reader struct {
	monitor *slowlog.Monitor
	metrics *monitoring.MetricsCollector
	log     zerolog.Logger
}

// New creates a reader. metrics may be nil.
func New(monitor *slowlog.Monitor, metrics *monitoring.MetricsCollector, log zerolog.Logger) *Reader {
	return &Reader{monitor: monitor, metrics: metrics, log: log}
}

// Run consumes events from src until EOF, a scan error, or context
// cancellation.
func (r *Reader) Run(ctx context.Context, src io.Reader) error {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		op, took, err := parseEvent(line)
		if err != nil {
			r.reject(err)
			continue
		}
		r.monitor.OnOperationComplete(op, took)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading operation events: %w", err)
	}
	return nil
}

// ListenTCP accepts connections and runs each as an event stream.
// Returns when the context is cancelled or the listener fails.
func (r *Reader) ListenTCP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	r.log.Info().Str("addr", addr).Msg("ingest listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accepting ingest connection: %w", err)
		}
		go func() {
			defer conn.Close()
			if err := r.Run(ctx, conn); err != nil && ctx.Err() == nil {
				r.log.Warn().Err(err).Msg("ingest connection closed with error")
			}
		}()
	}
}

func (r *Reader) reject(err error) {
	if r.metrics != nil {
		r.metrics.RecordIngestRejected()
	}
	r.log.Debug().Err(err).Msg("skipping ingest line")
}

// parseEvent decodes one event line into an operation and its elapsed
// time. The "source" field is kept as raw JSON bytes; re-encoding is
// the formatter's job.
func parseEvent(line []byte) (*slowlog.Operation, time.Duration, error) {
	if !gjson.ValidBytes(line) {
		return nil, 0, fmt.Errorf("invalid JSON event")
	}
	doc := gjson.ParseBytes(line)

	kind := slowlog.OpKind(doc.Get("kind").String())
	if kind == "" {
		kind = slowlog.OpIndex
	}
	switch kind {
	case slowlog.OpIndex, slowlog.OpCreate:
	default:
		return nil, 0, fmt.Errorf("unknown operation kind %q", kind)
	}

	op := &slowlog.Operation{
		Kind:    kind,
		DocType: doc.Get("type").String(),
		DocID:   doc.Get("id").String(),
		Routing: doc.Get("routing").String(),
	}
	if source := doc.Get("source"); source.Exists() {
		op.Source = []byte(source.Raw)
	}

	return op, time.Duration(doc.Get("took_nanos").Int()), nil
}
