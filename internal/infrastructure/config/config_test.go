package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "5000", cfg.Relay.Port)
	assert.Equal(t, "0.0.0.0", cfg.Relay.Host)
	assert.Contains(t, cfg.Platform.LoginURL, "/login")
	assert.Contains(t, cfg.Platform.SessionURL, "/session")
	assert.Equal(t, "panel.db", cfg.Storage.Path)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RELAY_PORT", "6001")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "6001", cfg.Relay.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileOverlay(t *testing.T) {
	t.Setenv("RELAY_PORT", "6001")

	path := filepath.Join(t.TempDir(), "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform:\n  pod_url: https://pod.example.com/saas\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// File value applied, untouched fields keep env/defaults
	assert.Equal(t, "https://pod.example.com/saas", cfg.Platform.PodURL)
	assert.Equal(t, "6001", cfg.Relay.Port)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
