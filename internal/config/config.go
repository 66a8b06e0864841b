// Package config handles configuration for the passkeeper CLI, including
// defaults, a JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the vault host.
//
// Fields:
//   - DatabasePath: path to the sqlite vault file.
//   - LogLevel: minimum level for structured logs (debug, info, warn, error).
type Config struct {
	DatabasePath string
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "passkeeper.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
