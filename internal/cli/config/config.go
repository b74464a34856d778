// Package config resolves runtime settings from flags, environment
// variables, and defaults, in that order of precedence. API keys are read
// here once and handed to the clients explicitly; no other package touches
// the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings keys. Flags bind to these names; the environment variables listed
// alongside override the defaults.
const (
	KeyCedarAPIKey     = "cedar_api_key"     // CEDAR_API_KEY
	KeyBioportalAPIKey = "bioportal_api_key" // BIOPORTAL_API_KEY
	KeyCacheDir        = "cache_dir"         // CEDAR_MCP_CACHE_DIR
	KeyCacheTTL        = "cache_ttl"         // CEDAR_MCP_CACHE_TTL
	KeyCacheDisabled   = "no_cache"          // CEDAR_MCP_NO_CACHE
	KeyLogLevel        = "log_level"         // CEDAR_MCP_LOG_LEVEL
	KeyRetryMax        = "retry_max"         // CEDAR_MCP_RETRY_MAX
	KeyRetryInitial    = "retry_initial"     // CEDAR_MCP_RETRY_INITIAL
	KeyRetryMaxDelay   = "retry_max_delay"   // CEDAR_MCP_RETRY_MAX_DELAY
)

// Retry bounds the 429 retry loop of both upstream clients.
type Retry struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Config is the resolved runtime configuration.
type Config struct {
	CedarAPIKey     string
	BioportalAPIKey string

	CacheDir      string
	CacheTTL      time.Duration
	CacheDisabled bool

	LogLevel string
	Retry    Retry
}

// Bind registers defaults and environment bindings on v. Call once before
// flags are bound so flag values keep precedence.
func Bind(v *viper.Viper) {
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyCacheTTL, 24*time.Hour)
	v.SetDefault(KeyCacheDisabled, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRetryMax, 3)
	v.SetDefault(KeyRetryInitial, time.Second)
	v.SetDefault(KeyRetryMaxDelay, time.Minute)

	_ = v.BindEnv(KeyCedarAPIKey, "CEDAR_API_KEY")
	_ = v.BindEnv(KeyBioportalAPIKey, "BIOPORTAL_API_KEY")
	_ = v.BindEnv(KeyCacheDir, "CEDAR_MCP_CACHE_DIR")
	_ = v.BindEnv(KeyCacheTTL, "CEDAR_MCP_CACHE_TTL")
	_ = v.BindEnv(KeyCacheDisabled, "CEDAR_MCP_NO_CACHE")
	_ = v.BindEnv(KeyLogLevel, "CEDAR_MCP_LOG_LEVEL")
	_ = v.BindEnv(KeyRetryMax, "CEDAR_MCP_RETRY_MAX")
	_ = v.BindEnv(KeyRetryInitial, "CEDAR_MCP_RETRY_INITIAL")
	_ = v.BindEnv(KeyRetryMaxDelay, "CEDAR_MCP_RETRY_MAX_DELAY")
}

// Load materialises the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		CedarAPIKey:     v.GetString(KeyCedarAPIKey),
		BioportalAPIKey: v.GetString(KeyBioportalAPIKey),
		CacheDir:        v.GetString(KeyCacheDir),
		CacheTTL:        v.GetDuration(KeyCacheTTL),
		CacheDisabled:   v.GetBool(KeyCacheDisabled),
		LogLevel:        v.GetString(KeyLogLevel),
		Retry: Retry{
			MaxRetries:   v.GetInt(KeyRetryMax),
			InitialDelay: v.GetDuration(KeyRetryInitial),
			MaxDelay:     v.GetDuration(KeyRetryMaxDelay),
		},
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("config: cache TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("config: retry max must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	return cfg, nil
}

// RequireCedar ensures a CEDAR API key is present.
func (c *Config) RequireCedar() error {
	if c.CedarAPIKey == "" {
		return errors.New("config: CEDAR API key missing: set CEDAR_API_KEY or --cedar-api-key")
	}
	return nil
}

// RequireBioportal ensures a BioPortal API key is present.
func (c *Config) RequireBioportal() error {
	if c.BioportalAPIKey == "" {
		return errors.New("config: BioPortal API key missing: set BIOPORTAL_API_KEY or --bioportal-api-key")
	}
	return nil
}
