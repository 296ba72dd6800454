// Package config handles configuration for the client, including defaults,
// JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the healthsync client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend REST endpoint.
//   - DatabasePath: sqlite file holding session/device metadata.
//   - DebounceInterval: quiet period before a mutation triggers a push.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	DebounceInterval    time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "healthsync.db"
	c.DebounceInterval = 3 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
