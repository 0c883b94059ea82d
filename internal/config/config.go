package config

import "time"

// Config holds runtime settings for the nudger CLI.
type Config struct {
	DatabaseDSN    string
	SessionSecret  string
	SessionTTL     time.Duration
	DefaultPersona string
	LogLevel       string
	LogFormat      string
}

// DefaultSessionTTL is how long a session stamp and a saved profile stay valid.
const DefaultSessionTTL = 28 * 24 * time.Hour

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "nudger.db"
	c.SessionSecret = "nudger-local-session"
	c.SessionTTL = DefaultSessionTTL
	c.DefaultPersona = "HarshCritic"
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
