package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "harvest.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://google.serper.dev", cfg.Serper.BaseURL)
	assert.Equal(t, "https://r.jina.ai", cfg.Reader.BaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.InDelta(t, 0.1, cfg.Anthropic.Temperature, 0.001)

	assert.Equal(t, 4, cfg.Search.MaxQueries)
	assert.Equal(t, 8, cfg.Search.ResultsPerPage)
	assert.Equal(t, 70, cfg.Search.StopScore)
	assert.Equal(t, -10, cfg.Search.MinScore)
	assert.Equal(t, 200, cfg.Search.PacingMillis)
	assert.Equal(t, 35, cfg.Search.Weights.KnownDomain)
	assert.Equal(t, 20, cfg.Search.Weights.EduDomain)
	assert.Equal(t, 30, cfg.Search.Weights.StaffURLHint)
	assert.Equal(t, -35, cfg.Search.Weights.NegativeURLTerm)
	assert.Equal(t, -20, cfg.Search.Weights.NegativeTitle)

	assert.Equal(t, 20, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 500, cfg.Scrape.MinContentChars)
	assert.Equal(t, 12000, cfg.Compact.MaxChars)
	assert.Equal(t, 800, cfg.Compact.MinKeptChars)
	assert.Equal(t, 200, cfg.Compact.FallbackLines)
	assert.Equal(t, 1, cfg.Harvest.Concurrency)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/harvest
log:
  level: debug
  format: console
search:
  stop_score: 80
  weights:
    known_domain: 40
domains:
  Example College: example.edu
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 80, cfg.Search.StopScore)
	assert.Equal(t, 40, cfg.Search.Weights.KnownDomain)
	assert.Equal(t, "example.edu", cfg.Domains["Example College"])
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Search.Weights.EduDomain)
	assert.Equal(t, 4, cfg.Search.MaxQueries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("HARVEST_STORE_DRIVER", "postgres")
	t.Setenv("HARVEST_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

// validHarvest returns a Config that passes harvest-mode validation.
func validHarvest() *Config {
	cfg := &Config{}
	cfg.Serper.Key = "serper-key"
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Store.DatabaseURL = "harvest.db"
	cfg.Server.Port = 8080
	cfg.Harvest.Concurrency = 1
	cfg.Search.MaxQueries = 4
	cfg.Compact.MaxChars = 12000
	cfg.Compact.MinKeptChars = 800
	return cfg
}

func TestValidateHarvest_AllPresent(t *testing.T) {
	assert.NoError(t, validHarvest().Validate("harvest"))
}

func TestValidateHarvest_MissingKeys(t *testing.T) {
	cfg := validHarvest()
	cfg.Serper.Key = ""
	cfg.Anthropic.Key = ""

	err := cfg.Validate("harvest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serper.key is required")
	assert.Contains(t, err.Error(), "anthropic.key is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validHarvest()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validHarvest()

	cfg.Harvest.Concurrency = 0
	assert.Error(t, cfg.Validate("harvest"))

	cfg.Harvest.Concurrency = 51
	assert.Error(t, cfg.Validate("harvest"))

	cfg.Harvest.Concurrency = 50
	assert.NoError(t, cfg.Validate("harvest"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validHarvest().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateBudgetOrdering(t *testing.T) {
	cfg := validHarvest()
	cfg.Compact.MaxChars = 500

	err := cfg.Validate("harvest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compact.max_chars")
}
