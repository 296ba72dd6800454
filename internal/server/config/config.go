// Package config handles configuration for the server, including defaults,
// JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the healthsync server.
//
// Fields:
//   - RunAddr: bind address for the REST endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty means in-memory storage.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
type Config struct {
	RunAddr               string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
}

// LoadDefaults populates c with development defaults. The secret key must
// be overridden in any real deployment.
func (c *Config) LoadDefaults() {
	c.RunAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
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
