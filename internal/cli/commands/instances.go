package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInstancesCommand(v *viper.Viper) *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "instances <template-id>",
		Short: "List the IDs of every instance based on a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageSize < 1 {
				return fmt.Errorf("page size must be positive, got %d", pageSize)
			}

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

			cedarClient, err := newCedarClient(cfg, log)
			if err != nil {
				return err
			}

			ids, err := cedarClient.AllInstanceIDs(cmd.Context(), args[0], pageSize)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 100, "search page size for the scan")
	return cmd
}
