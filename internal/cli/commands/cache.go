package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/musen-lab/cedar-mcp/internal/cache"
)

func newCacheCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local lookup cache",
	}
	cmd.AddCommand(newCachePruneCommand(v), newCacheClearCommand(v))
	return cmd
}

func withCacheStore(v *viper.Viper, run func(cmd *cobra.Command, store *cache.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(v)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() {
			_ = log.Sync()
		}()

		store, err := openCache(cfg, log)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("cache is disabled")
		}
		defer func() {
			_ = store.Close()
		}()

		return run(cmd, store)
	}
}

func newCachePruneCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: withCacheStore(v, func(cmd *cobra.Command, store *cache.Store) error {
			removed, err := store.RemoveStale(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d expired entries removed\n",
				color.GreenString("✓"), removed)
			return nil
		}),
	}
}

func newCacheClearCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cache entry",
		Args:  cobra.NoArgs,
		RunE: withCacheStore(v, func(cmd *cobra.Command, store *cache.Store) error {
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries removed\n",
				color.GreenString("✓"), removed)
			return nil
		}),
	}
}
