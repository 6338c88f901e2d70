package webtrack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{APIKey: "key"}
	cfg.applyDefaults()

	require.Equal(t, DefaultEndpoint, cfg.Endpoint)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultCookiePrefix, cfg.CookiePrefix)
	require.False(t, cfg.Debug)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("WEBTRACK_API_KEY", "env-key")
	t.Setenv("WEBTRACK_ENDPOINT", "https://collect.example.com/v1")
	t.Setenv("WEBTRACK_TIMEOUT_SECONDS", "9")
	t.Setenv("WEBTRACK_DEBUG", "true")
	t.Setenv("WEBTRACK_COOKIE_PREFIX", "acme")

	cfg := ConfigFromEnv()
	require.Equal(t, "env-key", cfg.APIKey)
	require.Equal(t, "https://collect.example.com/v1", cfg.Endpoint)
	require.Equal(t, 9*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug)
	require.Equal(t, "acme", cfg.CookiePrefix)
}

func TestConfigFromEnvUnset(t *testing.T) {
	t.Setenv("WEBTRACK_API_KEY", "env-key")
	t.Setenv("WEBTRACK_ENDPOINT", "")
	t.Setenv("WEBTRACK_TIMEOUT_SECONDS", "")
	t.Setenv("WEBTRACK_DEBUG", "")

	cfg := ConfigFromEnv()
	require.Empty(t, cfg.Endpoint)
	require.Zero(t, cfg.Timeout)
	require.False(t, cfg.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webtrack.yaml")
	content := []byte(`
api_key: file-key
endpoint: https://collect.example.com/v1
timeout_seconds: 3
debug: true
cookie_prefix: acme
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.APIKey)
	require.Equal(t, "https://collect.example.com/v1", cfg.Endpoint)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug)
	require.Equal(t, "acme", cfg.CookiePrefix)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0o600))

	_, err := LoadConfigFile(path)
	require.Error(t, err)
}
