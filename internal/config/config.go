// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix applied to every environment variable read by Load.
const Prefix = "WORKSPACE_MCP_"

// Config holds the tunables of the server. Every field has a sane
// default, so a bare environment yields a working configuration.
type Config struct {
	// Rate limiting across all Google API calls, per service.
	RateMaxCalls int           `env:"RATE_MAX_CALLS" envDefault:"100"`
	RateWindow   time.Duration `env:"RATE_WINDOW" envDefault:"60s"`
	RateBurst    int           `env:"RATE_BURST" envDefault:"10"`
	RateMaxWait  time.Duration `env:"RATE_MAX_WAIT" envDefault:"10s"`

	// Response cache for read-only, idempotent tools.
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"300s"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"1000"`

	// Response shaping.
	CharacterLimit int `env:"CHARACTER_LIMIT" envDefault:"25000"`

	// Upstream call behavior.
	CallTimeout   time.Duration `env:"CALL_TIMEOUT" envDefault:"30s"`
	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`

	// Metrics endpoint, served only when a listen address is set.
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Load reads the configuration from WORKSPACE_MCP_* variables.
func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: Prefix})
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RateMaxCalls <= 0 {
		return fmt.Errorf("RATE_MAX_CALLS must be positive, got %d", c.RateMaxCalls)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.CacheMaxEntries)
	}
	if c.CharacterLimit <= 0 {
		return fmt.Errorf("CHARACTER_LIMIT must be positive, got %d", c.CharacterLimit)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("CALL_TIMEOUT must be positive, got %s", c.CallTimeout)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	return nil
}
