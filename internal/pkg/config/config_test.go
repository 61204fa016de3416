package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FALLBACK_DELAY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, HistoryMemory, cfg.Repositories.HistoryBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "Toronto", cfg.Search.DefaultLocation)
	assert.Equal(t, time.Second, cfg.Search.FallbackDelay)
	assert.Equal(t, 5, cfg.Search.HistoryLimit)
	assert.Equal(t, "8091", cfg.ServerPort)
	assert.False(t, cfg.ProviderConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("FALLBACK_DELAY", "250ms")
	t.Setenv("HISTORY_BACKEND", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEARCH_RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.ProviderConfigured())
	assert.Equal(t, 250*time.Millisecond, cfg.Search.FallbackDelay)
	assert.Equal(t, HistoryRedis, cfg.Repositories.HistoryBackend)
	assert.Equal(t, 3, cfg.Repositories.Redis.DB)
	assert.Equal(t, 20, cfg.Search.RateLimit)
}

func TestLoadPostgresRequiresPassword(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("POSTGRES_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_PASSWORD")

	t.Setenv("POSTGRES_PASSWORD", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, HistoryPostgres, cfg.Repositories.HistoryBackend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, "HISTORY_BACKEND")
}
