package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/musen-lab/cedar-mcp/internal/mcpserver"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve exposes the template and ontology tools over the Model Context
Protocol on stdin/stdout. Logs go to stderr so the transport stays clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			bioportalClient, err := newBioportalClient(cfg, log)
			if err != nil {
				return err
			}

			store, err := openCache(cfg, log)
			if err != nil {
				return err
			}
			if store != nil {
				defer func() {
					_ = store.Close()
				}()
			}

			log.Info("starting MCP server",
				zap.String("version", version),
				zap.Bool("cache", store != nil),
			)

			srv := mcpserver.New(mcpserver.Options{
				CedarClient: cedarClient,
				Bioportal:   bioportalClient,
				Cache:       store,
				Log:         log,
				Version:     version,
			})
			return srv.Serve()
		},
	}
}
