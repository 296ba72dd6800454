package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"client"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)
	cfg := LoadConfig()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, "healthsync.db", cfg.DatabasePath)
	assert.Equal(t, 3*time.Second, cfg.DebounceInterval)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Flags(t *testing.T) {
	withArgs(t, "-a", "http://example.org:9000", "-d", "1", "-i", "30")
	cfg := LoadConfig()

	assert.Equal(t, "http://example.org:9000", cfg.ServerEndpointAddr)
	assert.Equal(t, 1*time.Second, cfg.DebounceInterval)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_JSONThenFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "http://json-host:1234",
		"database_path": "json.db",
		"debounce_interval": "10s"
	}`), 0o600))

	withArgs(t, "-c", path, "-a", "http://flag-host:5678")
	cfg := LoadConfig()

	// flags beat JSON, JSON beats defaults
	assert.Equal(t, "http://flag-host:5678", cfg.ServerEndpointAddr)
	assert.Equal(t, "json.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.DebounceInterval)
}
