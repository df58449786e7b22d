package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateMaxCalls)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.CacheMaxEntries)
	assert.Equal(t, 25000, cfg.CharacterLimit)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKSPACE_MCP_RATE_MAX_CALLS", "50")
	t.Setenv("WORKSPACE_MCP_CACHE_TTL", "2m")
	t.Setenv("WORKSPACE_MCP_CHARACTER_LIMIT", "4096")
	t.Setenv("WORKSPACE_MCP_METRICS_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.RateMaxCalls)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4096, cfg.CharacterLimit)
	assert.Equal(t, "127.0.0.1:9090", cfg.MetricsAddr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero rate calls", "WORKSPACE_MCP_RATE_MAX_CALLS", "0"},
		{"negative window", "WORKSPACE_MCP_RATE_WINDOW", "-1s"},
		{"zero cache entries", "WORKSPACE_MCP_CACHE_MAX_ENTRIES", "0"},
		{"zero character limit", "WORKSPACE_MCP_CHARACTER_LIMIT", "0"},
		{"zero retry attempts", "WORKSPACE_MCP_RETRY_ATTEMPTS", "0"},
		{"unparseable duration", "WORKSPACE_MCP_CALL_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
