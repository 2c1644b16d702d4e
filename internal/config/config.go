// Package config loads and validates the slowlogd configuration.
//
// DESIGN: Startup configuration comes from a YAML file with
// ${VAR:-default} environment expansion. Only the STATIC shape lives
// here (listener addresses, logger setup, which settings file to
// watch, initial dynamic settings); the dynamic slow-log settings
// themselves are hot-reloaded through internal/settings at runtime.
//
// FILES:
//   - config.go:  Root Config struct, Load(), Validate()
//   - slowlog.go: Slow-log monitor section (op name, initial settings)
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quayside/slowlog/internal/monitoring"
)

// Config is the root configuration for slowlogd.
type Config struct {
	Admin      AdminConfig             `yaml:"admin"`      // Admin HTTP API
	Ingest     IngestConfig            `yaml:"ingest"`     // Operation event source
	Monitoring monitoring.LoggerConfig `yaml:"monitoring"` // Logger settings
	Slowlog    SlowlogConfig           `yaml:"slowlog"`    // Monitor settings
}

// AdminConfig contains the admin HTTP server settings.
type AdminConfig struct {
	Enabled      bool          `yaml:"enabled"`       // Serve the admin API
	Addr         string        `yaml:"addr"`          // Listen address, e.g. 127.0.0.1:9414
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Max time to read a request
	WriteTimeout time.Duration `yaml:"write_timeout"` // Max time to write a response
}

// IngestConfig selects where completed-operation events come from.
type IngestConfig struct {
	Source  string `yaml:"source"`   // "stdin" or "tcp"
	TCPAddr string `yaml:"tcp_addr"` // Listen address when source is "tcp"
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file.
// Returns an error if the file doesn't exist or is invalid.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes, expands
// environment variables, applies defaults, and validates.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in the optional sections.
func (c *Config) applyDefaults() {
	if c.Ingest.Source == "" {
		c.Ingest.Source = "stdin"
	}
	if c.Admin.Enabled {
		if c.Admin.ReadTimeout == 0 {
			c.Admin.ReadTimeout = 10 * time.Second
		}
		if c.Admin.WriteTimeout == 0 {
			c.Admin.WriteTimeout = 10 * time.Second
		}
	}
	c.Slowlog.applyDefaults()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Ingest.Source {
	case "stdin":
	case "tcp":
		if c.Ingest.TCPAddr == "" {
			return fmt.Errorf("ingest.tcp_addr is required when ingest.source is 'tcp'")
		}
	default:
		return fmt.Errorf("invalid ingest.source: %q (must be 'stdin' or 'tcp')", c.Ingest.Source)
	}

	if c.Admin.Enabled && c.Admin.Addr == "" {
		return fmt.Errorf("admin.addr is required when admin.enabled is true")
	}

	return c.Slowlog.Validate()
}
