package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline-ai/backend/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.8, cfg.Triage.CriticalSeverityThreshold)
	assert.Equal(t, 15, cfg.Triage.EstimatedResponseMinutes)
	assert.Equal(t, "unknown", cfg.Triage.DefaultCategory)
	assert.Equal(t, 10.0, cfg.Hospitals.DefaultRadiusKm)
	assert.Equal(t, 10, cfg.Hospitals.MaxResults)
	assert.Equal(t, "synthetic", cfg.Hospitals.Provider)
	assert.True(t, cfg.OpenAI.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRITICAL_SEVERITY_THRESHOLD", "0.9")
	t.Setenv("MAX_HOSPITAL_RESULTS", "5")
	t.Setenv("AI_ENABLED", "false")
	t.Setenv("HOSPITAL_PROVIDER", "overpass")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Triage.CriticalSeverityThreshold)
	assert.Equal(t, 5, cfg.Hospitals.MaxResults)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "overpass", cfg.Hospitals.Provider)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("CRITICAL_SEVERITY_THRESHOLD", "high")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.8, cfg.Triage.CriticalSeverityThreshold)
}

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
