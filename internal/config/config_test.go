package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 4, cfg.Workers.PoolSize)
	assert.Equal(t, 100, cfg.Workers.QueueSize)
	assert.Equal(t, Duration(60*time.Second), cfg.Workers.Timeout)
	assert.Equal(t, Duration(5*time.Second), cfg.Workers.QueueTimeout)
	assert.Equal(t, Duration(30*time.Minute), cfg.Cache.TTL)
	assert.Equal(t, Duration(10*time.Minute), cfg.Cache.CleanupInterval)
	assert.Equal(t, "usa", cfg.Source.Country)
	assert.Equal(t, "markdown", cfg.Source.DescriptionFormat)
	assert.Equal(t, 3, cfg.Source.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
workers:
  pool_size: 8
cache:
  ttl: 1h
source:
  base_url: "http://scraper.internal:8001"
  country: "uk"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Workers.PoolSize)
	assert.Equal(t, Duration(time.Hour), cfg.Cache.TTL)
	assert.Equal(t, "http://scraper.internal:8001", cfg.Source.BaseURL)
	assert.Equal(t, "uk", cfg.Source.Country)

	// Unset fields keep their defaults
	assert.Equal(t, 100, cfg.Workers.QueueSize)
	assert.Equal(t, Duration(10*time.Minute), cfg.Cache.CleanupInterval)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("SOURCE_BASE_URL", "http://env.example.com")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("WORKERS_POOL_SIZE", "16")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http://env.example.com", cfg.Source.BaseURL)
	assert.Equal(t, Duration(15*time.Minute), cfg.Cache.TTL)
	assert.Equal(t, 16, cfg.Workers.PoolSize)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("SCRAPER_HOST", "scraper.test")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
source:
  base_url: "http://${SCRAPER_HOST}:8001"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://scraper.test:8001", cfg.Source.BaseURL)
}
