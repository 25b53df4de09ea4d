package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativecheck/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, int64(50), cfg.Server.MaxUploadMB)
	// A full 20 x 50 MB upload must fit inside the read deadline.
	assert.Equal(t, 10*time.Minute, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "openai", cfg.Checker.Provider)
	assert.Equal(t, 2000, cfg.Checker.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Checker.Temperature, 1e-9)
	assert.Equal(t, "high", cfg.Checker.Detail)
	assert.Equal(t, 1, cfg.Checker.Concurrency)
	assert.Equal(t, float64(144), cfg.Rasterizer.DPI)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, "exports", cfg.S3.Prefix)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CREATIVECHECK_CHECKER_PROVIDER", "Claude")
	t.Setenv("CREATIVECHECK_CHECKER_CONCURRENCY", "0")
	t.Setenv("CREATIVECHECK_S3_BUCKET", "creative-exports")
	t.Setenv("CREATIVECHECK_S3_PREFIX", "/runs/")
	t.Setenv("CREATIVECHECK_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.Checker.Provider)
	assert.Equal(t, 1, cfg.Checker.Concurrency, "concurrency is clamped to at least one worker")
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "runs", cfg.S3.Prefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CREATIVECHECK_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestCheckerConfig_WithAPIKey(t *testing.T) {
	base := config.CheckerConfig{Provider: "openai", APIKey: "from-config"}

	withKey := base.WithAPIKey("sk-run")

	assert.Equal(t, "sk-run", withKey.APIKey)
	assert.Equal(t, "openai", withKey.Provider)
	assert.Equal(t, "from-config", base.APIKey, "original config is not modified")
}
