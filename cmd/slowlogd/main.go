// Package main is the entry point for slowlogd, the slow-operation
// monitor daemon: it feeds completed write-operation events through
// the threshold classifier and emits slow-log lines, with thresholds
// hot-reloadable from a settings file or the admin API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/quayside/slowlog/internal/admin"
	"github.com/quayside/slowlog/internal/config"
	"github.com/quayside/slowlog/internal/ingest"
	"github.com/quayside/slowlog/internal/monitoring"
	"github.com/quayside/slowlog/internal/settings"
	"github.com/quayside/slowlog/internal/slowlog"
)

// loadEnvFiles loads .env from standard locations.
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "slowlogd", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Local .env can override
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", "slowlogd.yaml", "path to configuration file")
	flag.Parse()

	loadEnvFiles()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("slowlogd exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	monitoring.Global(cfg.Monitoring)

	// Slow-log output channels; their levels are owned by the config
	// controller from here on.
	indexLog := monitoring.NewChannelLogger(log.Logger, "index")
	deleteLog := monitoring.NewChannelLogger(log.Logger, "delete")

	metrics := monitoring.NewMetricsCollector()

	initial := settings.View(cfg.Slowlog.Settings)
	schema := slowlog.SchemaFor(cfg.Slowlog.Op)
	ctrl := slowlog.NewController(schema, initial, indexLog, deleteLog)

	svc := settings.NewService(initial)
	svc.Subscribe(func(v settings.View) {
		metrics.RecordSettingsApplied()
		ctrl.ApplySettings(v)
	})

	if cfg.Slowlog.SettingsFile != "" {
		watcher := settings.NewWatcher(cfg.Slowlog.SettingsFile, svc, log.Logger)
		if err := watcher.Start(); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Slowlog.SettingsFile).Msg("watching settings file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Admin.Enabled {
		srv := admin.New(cfg.Admin, svc, metrics, log.Logger)
		srv.Start()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("admin shutdown failed")
			}
		}()
	}

	monitor := slowlog.NewMonitor(ctrl, indexLog, metrics)
	reader := ingest.New(monitor, metrics, log.Logger)

	log.Info().
		Str("op", cfg.Slowlog.Op).
		Str("source", cfg.Ingest.Source).
		Msg("slowlogd started")

	switch cfg.Ingest.Source {
	case "tcp":
		return reader.ListenTCP(ctx, cfg.Ingest.TCPAddr)
	default:
		return reader.Run(ctx, os.Stdin)
	}
}
