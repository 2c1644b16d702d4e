// Package admin exposes a small HTTP API next to the slow-log monitor:
// health, operational counters, and runtime settings access. PUT and
// PATCH on /settings are an alternate settings source beside the file
// watcher — both feed the same settings service.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/quayside/slowlog/internal/config"
	"github.com/quayside/slowlog/internal/monitoring"
	"github.com/quayside/slowlog/internal/settings"
)

// maxSettingsBody bounds a settings document upload.
const maxSettingsBody = 1 << 20

// Server is the admin HTTP server.
type Server struct {
	svc     *settings.Service
	metrics *monitoring.MetricsCollector
	log     zerolog.Logger
	httpSrv *http.Server
}

// New creates the admin server. metrics may be nil.
func New(cfg config.AdminConfig, svc *settings.Service, metrics *monitoring.MetricsCollector, log zerolog.Logger) *Server {
	s := &Server{svc: svc, metrics: metrics, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handlePutSettings)
	mux.HandleFunc("PATCH /settings", s.handlePatchSettings)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      panicRecovery(log, loggingMiddleware(log, mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("admin API listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("admin server failed")
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the configured handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	stats := map[string]int64{}
	if s.metrics != nil {
		stats = s.metrics.Stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetSettings renders the current view as a nested JSON document
// (dotted keys become nested objects).
func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	view := s.svc.Current()

	keys := make([]string, 0, len(view))
	for k := range view {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := "{}"
	for _, k := range keys {
		var err error
		doc, err = sjson.Set(doc, k, view[k])
		if err != nil {
			http.Error(w, "failed to render settings", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// handlePutSettings replaces the complete settings view.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	view, err := readSettingsBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.svc.Update(view)
	writeJSON(w, http.StatusOK, map[string]int{"applied_keys": len(view)})
}

// handlePatchSettings merges keys into the current view.
func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	view, err := readSettingsBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.svc.Merge(view)
	writeJSON(w, http.StatusOK, map[string]int{"applied_keys": len(view)})
}

// readSettingsBody parses a JSON settings document into a flat view.
// Nested objects flatten to dotted keys, the inverse of
// handleGetSettings.
func readSettingsBody(r *http.Request) (settings.View, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body")
	}
	doc := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !doc.IsObject() {
		return nil, fmt.Errorf("request body must be a JSON object")
	}

	view := settings.View{}
	flattenInto(view, "", doc)
	return view, nil
}

// flattenInto walks a JSON document, collecting leaves as dotted keys.
func flattenInto(view settings.View, prefix string, value gjson.Result) {
	if value.IsObject() {
		value.ForEach(func(key, val gjson.Result) bool {
			child := key.String()
			if prefix != "" {
				child = prefix + "." + child
			}
			flattenInto(view, child, val)
			return true
		})
		return
	}
	if prefix != "" {
		view[prefix] = value.String()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
