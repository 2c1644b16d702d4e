package settings

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Watcher re-reads a settings file whenever it changes on disk and
// pushes the complete flattened view into a Service. The file may be
// YAML, JSON, or TOML — anything viper reads; nested sections flatten
// to dotted keys, matching the dynamic key schema.
type Watcher struct {
	path string
	v    *viper.Viper
	svc  *Service
	log  zerolog.Logger
}

// NewWatcher creates a watcher for the given settings file.
func NewWatcher(path string, svc *Service, log zerolog.Logger) *Watcher {
	return &Watcher{
		path: path,
		v:    viper.New(),
		svc:  svc,
		log:  log,
	}
}

// Start performs the initial read, pushes the initial view, and
// begins watching for file changes. Watching runs on viper's own
// goroutine until the process exits.
func (w *Watcher) Start() error {
	w.v.SetConfigFile(w.path)
	if err := w.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read settings file '%s': %w", w.path, err)
	}
	w.svc.Update(w.flatten())

	w.v.OnConfigChange(func(_ fsnotify.Event) {
		// viper re-reads the file before invoking the callback
		view := w.flatten()
		w.log.Info().Str("file", w.path).Int("keys", len(view)).Msg("settings file changed")
		w.svc.Update(view)
	})
	w.v.WatchConfig()
	return nil
}

// flatten converts viper's nested keys into a dotted-key view.
func (w *Watcher) flatten() View {
	view := View{}
	for _, key := range w.v.AllKeys() {
		view[key] = w.v.GetString(key)
	}
	return view
}
