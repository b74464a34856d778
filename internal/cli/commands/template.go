package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/musen-lab/cedar-mcp/internal/transform"
)

func newTemplateCommand(v *viper.Viper) *cobra.Command {
	var (
		format          string
		resolveBranches bool
	)

	cmd := &cobra.Command{
		Use:   "template <template-id>",
		Short: "Fetch a template and print its simplified model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q: use json or yaml", format)
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

			doc, err := cedarClient.GetTemplate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tmpl := transform.Template(doc)

			if resolveBranches {
				bioportalClient, err := newBioportalClient(cfg, log)
				if err != nil {
					return err
				}
				transform.NewBranchResolver(bioportalClient, log).Resolve(cmd.Context(), tmpl)
			}

			var out []byte
			if format == "yaml" {
				out, err = tmpl.MarshalYAMLDocument()
			} else {
				out, err = tmpl.MarshalJSONIndent()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&resolveBranches, "resolve-branches", false,
		"expand ontology branch constraints into explicit term lists (needs a BioPortal key)")
	return cmd
}
