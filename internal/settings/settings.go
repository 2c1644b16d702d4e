// Package settings delivers dynamic configuration to the slow-log
// subsystem.
//
// DESIGN: Updates are always a COMPLETE view of the dynamic settings,
// never a partial diff. The Service holds the current view and fans it
// out to subscribed listeners; consumers (the slowlog controller) do
// their own per-key diffing against their previous state. Sources push
// through Update/Merge: the file Watcher (watcher.go) and the admin
// API are both just sources.
package settings

import (
	"strings"
	"sync"
	"time"
)

// View is one complete snapshot of the dynamic settings, keyed by
// dotted setting name (e.g. "threshold.index.warn"). Values are kept
// as strings; typed access goes through the getters below, which fall
// back when a key is absent or unparsable.
type View map[string]string

// String returns the value for key, or fallback when absent.
func (v View) String(key, fallback string) string {
	if val, ok := v[key]; ok {
		return val
	}
	return fallback
}

// Duration returns the duration value for key, or fallback when the
// key is absent or does not parse. A bare "-1" disables a threshold.
func (v View) Duration(key string, fallback time.Duration) time.Duration {
	val, ok := v[key]
	if !ok {
		return fallback
	}
	val = strings.TrimSpace(val)
	if val == "-1" {
		return -1
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}

// Bool returns the boolean value for key, or fallback when the key is
// absent or not a recognized boolean literal.
func (v View) Bool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v.String(key, ""))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}

// Clone returns an independent copy of the view.
func (v View) Clone() View {
	out := make(View, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Service owns the current settings view and notifies listeners on
// every update. Listener callbacks run under the service mutex so a
// given listener observes updates in a single, serialized order.
type Service struct {
	mu        sync.Mutex
	current   View
	listeners []func(View)
}

// NewService creates a service seeded with an initial view (may be nil).
func NewService(initial View) *Service {
	if initial == nil {
		initial = View{}
	}
	return &Service{current: initial.Clone()}
}

// Subscribe registers a listener for future updates.
func (s *Service) Subscribe(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns a copy of the current view.
func (s *Service) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update replaces the current view wholesale and notifies listeners
// with the complete new view.
func (s *Service) Update(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v.Clone()
	s.notifyLocked()
}

// Merge overlays the given keys onto the current view and notifies
// listeners with the resulting complete view.
func (s *Service) Merge(partial View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Clone()
	for k, val := range partial {
		next[k] = val
	}
	s.current = next
	s.notifyLocked()
}

func (s *Service) notifyLocked() {
	snapshot := s.current.Clone()
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}
