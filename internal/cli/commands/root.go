// Package commands defines the cedar-mcp command tree. The root command only
// wires flags into configuration; behaviour lives in the subcommands.
package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/musen-lab/cedar-mcp/internal/cli/config"
)

var version = "dev"

// SetVersion overrides the reported version, normally from build flags.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	config.Bind(v)

	root := &cobra.Command{
		Use:   "cedar-mcp",
		Short: "MCP server and CLI for CEDAR metadata templates",
		Long: `cedar-mcp turns CEDAR metadata templates and BioPortal ontology lookups
into Model Context Protocol tools, and offers the same operations as plain
CLI commands for inspection and scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("cedar-api-key", "", "CEDAR API key (defaults to CEDAR_API_KEY)")
	flags.String("bioportal-api-key", "", "BioPortal API key (defaults to BIOPORTAL_API_KEY)")
	flags.String("cache-dir", "", "directory for the lookup cache (defaults to the user cache dir)")
	flags.Duration("cache-ttl", 24*time.Hour, "lifetime of cached lookups")
	flags.Bool("no-cache", false, "disable the lookup cache")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	_ = v.BindPFlag(config.KeyCedarAPIKey, flags.Lookup("cedar-api-key"))
	_ = v.BindPFlag(config.KeyBioportalAPIKey, flags.Lookup("bioportal-api-key"))
	_ = v.BindPFlag(config.KeyCacheDir, flags.Lookup("cache-dir"))
	_ = v.BindPFlag(config.KeyCacheTTL, flags.Lookup("cache-ttl"))
	_ = v.BindPFlag(config.KeyCacheDisabled, flags.Lookup("no-cache"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newServeCommand(v),
		newTemplateCommand(v),
		newInstancesCommand(v),
		newCacheCommand(v),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
