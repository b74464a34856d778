package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/musen-lab/cedar-mcp/internal/bioportalapi"
	"github.com/musen-lab/cedar-mcp/internal/cache"
	"github.com/musen-lab/cedar-mcp/internal/cedarapi"
	"github.com/musen-lab/cedar-mcp/internal/cli/config"
	"github.com/musen-lab/cedar-mcp/internal/httpx"
)

func loadConfig(v *viper.Viper) (*config.Config, error) {
	return config.Load(v)
}

// newLogger builds a JSON logger on stderr. Stdout stays reserved for
// command output and, in serve mode, the MCP transport.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("commands: parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func retryOptions(cfg *config.Config) httpx.RetryOptions {
	return httpx.RetryOptions{
		MaxRetries:   cfg.Retry.MaxRetries,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
	}
}

func newCedarClient(cfg *config.Config, log *zap.Logger) (*cedarapi.Client, error) {
	if err := cfg.RequireCedar(); err != nil {
		return nil, err
	}
	return cedarapi.New(cfg.CedarAPIKey,
		cedarapi.WithRetryOptions(retryOptions(cfg)),
		cedarapi.WithLogger(log),
	), nil
}

func newBioportalClient(cfg *config.Config, log *zap.Logger) (*bioportalapi.Client, error) {
	if err := cfg.RequireBioportal(); err != nil {
		return nil, err
	}
	return bioportalapi.New(cfg.BioportalAPIKey,
		bioportalapi.WithRetryOptions(retryOptions(cfg)),
		bioportalapi.WithLogger(log),
	), nil
}

// openCache opens the lookup cache per configuration. A nil store (with nil
// error) means caching is disabled.
func openCache(cfg *config.Config, log *zap.Logger) (*cache.Store, error) {
	if cfg.CacheDisabled {
		return nil, nil
	}

	path := ""
	if cfg.CacheDir != "" {
		path = filepath.Join(cfg.CacheDir, "lookups.db")
	}
	return cache.Open(path,
		cache.WithTTL(cfg.CacheTTL),
		cache.WithLogger(log),
	)
}
