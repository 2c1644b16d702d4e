// Slow-log monitor configuration - op name, settings file, initial
// dynamic settings.
package config

import "fmt"

// SlowlogConfig configures the slow-operation monitor.
type SlowlogConfig struct {
	// Op is the monitored operation name; it selects the dynamic key
	// prefix "threshold.<op>.*".
	Op string `yaml:"op"`

	// SettingsFile is an optional file (YAML/JSON/TOML) watched for
	// dynamic settings changes. Empty disables watching; settings can
	// still arrive through the admin API.
	SettingsFile string `yaml:"settings_file"`

	// Settings seeds the dynamic settings at construction time, e.g.
	//   threshold.index.warn: 10s
	//   level: INFO
	//   reformat: "false"
	// Keys absent here keep their built-in defaults (thresholds
	// disabled, level TRACE, reformat true).
	Settings map[string]string `yaml:"settings"`
}

func (c *SlowlogConfig) applyDefaults() {
	if c.Op == "" {
		c.Op = "index"
	}
}

// Validate checks the slowlog section.
func (c *SlowlogConfig) Validate() error {
	for key := range c.Settings {
		if key == "" {
			return fmt.Errorf("slowlog.settings contains an empty key")
		}
	}
	return nil
}
