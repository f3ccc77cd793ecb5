package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pasadias.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, `
http:
  addr: ":9090"
catalog:
  url: "https://cdn.example.com/data.json"
  timeout: 2s
site:
  name: "Sol y Mar"
pages:
  idle_ttl: 10m
logging:
  level: debug
`)
	t.Setenv("PASADIAS_CATALOG_URL", "https://stiventours.com/data.json")
	t.Setenv("PASADIAS_PAGE_IDLE_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "https://stiventours.com/data.json", cfg.Catalog.URL)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "Sol y Mar", cfg.Site.Name)
	assert.Equal(t, "Agencia de Turismo", cfg.Site.TitleSuffix)
	assert.Equal(t, 5*time.Minute, cfg.Pages.IdleTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestCatalogURLFollowsListenAddress(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/data.json", cfg.CatalogURL())

	t.Setenv("PORT", "9090")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090/data.json", cfg.CatalogURL())

	cfg.HTTP.Addr = "127.0.0.1:7070"
	assert.Equal(t, "http://127.0.0.1:7070/data.json", cfg.CatalogURL())

	cfg.HTTP.Addr = "[::1]:7070"
	assert.Equal(t, "http://[::1]:7070/data.json", cfg.CatalogURL())

	cfg.Catalog.URL = "https://stiventours.com/data.json"
	assert.Equal(t, "https://stiventours.com/data.json", cfg.CatalogURL())
}

func TestPortFallbackAndExplicitAddr(t *testing.T) {
	t.Setenv("PORT", "3000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)

	t.Setenv("PASADIAS_HTTP_ADDR", "127.0.0.1:4000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.HTTP.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad url":    "catalog:\n  url: \"not a url\"\n",
		"bad phone":  "site:\n  fallback_phone: \"+57 300\"\n",
		"bad level":  "logging:\n  level: loud\n",
		"zero ttl":   "pages:\n  idle_ttl: 0s\n",
		"broken yml": "http: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPageOptions(t *testing.T) {
	cfg := Default()
	cfg.Site.Name = "Sol"
	cfg.Site.FallbackPhone = "571234"

	opts := cfg.PageOptions()
	assert.Equal(t, "Sol", opts.SiteName)
	assert.Equal(t, "571234", opts.FallbackPhone)
	assert.Equal(t, "/events/click", opts.EventsPath)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("id", "x1").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "x1", entry["id"])
	assert.Equal(t, "warn", entry["level"])
}
