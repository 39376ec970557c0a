package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"themespot/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, 15*time.Second, cfg.Detector.FetchTimeout)
	require.Equal(t, "ThemeSpot/1.0 (+https://yourdomain.example)", cfg.Detector.UserAgent)
	require.Equal(t, int64(5<<20), cfg.Detector.MaxBodyBytes)
	require.Empty(t, cfg.Affiliate.BaseURL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
environment: production
http:
  addr: ":9090"
detector:
  fetchTimeout: 5s
affiliate:
  baseUrl: "https://partners.example/go?theme={theme}&site={host}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DETECTOR_USER_AGENT", "test-agent/2.0")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, 5*time.Second, cfg.Detector.FetchTimeout)
	require.Equal(t, "test-agent/2.0", cfg.Detector.UserAgent)
	require.Equal(t, "https://partners.example/go?theme={theme}&site={host}", cfg.Affiliate.BaseURL)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  fetchTimeout: soon\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}
