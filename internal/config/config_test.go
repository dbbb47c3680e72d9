package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, 24, cfg.Store.JobTTLHours)
	assert.Equal(t, 300, cfg.Store.SweepIntervalSecs)
	assert.Empty(t, cfg.Store.DatabaseURL)

	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, 2048, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 30, cfg.Anthropic.RequestsPerMinute)

	assert.Equal(t, 60, cfg.Research.JobTimeoutSecs)
	assert.Equal(t, 2, cfg.Research.SectionRetries)
	assert.Equal(t, 8, cfg.Research.MaxConcurrentJobs)

	weights := cfg.Scoring.IngredientSafetyWeight + cfg.Scoring.ProcessingWeight +
		cfg.Scoring.CorporateWeight + cfg.Scoring.SupplyChainWeight
	assert.InDelta(t, 1.0, weights, 0.001)
	assert.Equal(t, 50, cfg.Scoring.UnknownHazard)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRUELABEL_SERVER_PORT", "9999")
	t.Setenv("TRUELABEL_STORE_JOB_TTL_HOURS", "48")
	t.Setenv("TRUELABEL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 48, cfg.Store.JobTTLHours)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
