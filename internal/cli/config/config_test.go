package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	Bind(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.CacheDisabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, time.Minute, cfg.Retry.MaxDelay)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CEDAR_API_KEY", "cedar-secret")
	t.Setenv("BIOPORTAL_API_KEY", "bp-secret")
	t.Setenv("CEDAR_MCP_CACHE_TTL", "1h")
	t.Setenv("CEDAR_MCP_LOG_LEVEL", "debug")

	v := viper.New()
	Bind(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "cedar-secret", cfg.CedarAPIKey)
	assert.Equal(t, "bp-secret", cfg.BioportalAPIKey)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExplicitValueBeatsEnvironment(t *testing.T) {
	t.Setenv("CEDAR_MCP_LOG_LEVEL", "warn")

	v := viper.New()
	Bind(v)
	v.Set(KeyLogLevel, "debug")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-positive ttl", func(t *testing.T) {
		v := viper.New()
		Bind(v)
		v.Set(KeyCacheTTL, "0s")

		_, err := Load(v)
		assert.Error(t, err)
	})

	t.Run("negative retry max", func(t *testing.T) {
		v := viper.New()
		Bind(v)
		v.Set(KeyRetryMax, -1)

		_, err := Load(v)
		assert.Error(t, err)
	})
}

func TestRequireKeys(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireCedar())
	assert.Error(t, cfg.RequireBioportal())

	cfg.CedarAPIKey = "x"
	cfg.BioportalAPIKey = "y"
	assert.NoError(t, cfg.RequireCedar())
	assert.NoError(t, cfg.RequireBioportal())
}
