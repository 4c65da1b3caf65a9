// Package cli implements cityctl, the administration command line of the
// interventions backend. Every command goes through the same services as the
// HTTP API so the cross-entity rules hold for seeded or exported data too.
package cli

import (
	"fmt"
	"slices"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands / Options globales
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"

	// extra container options, used by tests to swap infrastructure
	containerOptions []app.Option
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the cityctl root command / Crée la commande racine
func NewRootCommand(opts ...app.Option) *cobra.Command {
	root := &RootOptions{containerOptions: opts}

	cmd := &cobra.Command{
		Use:   "cityctl",
		Short: "Administration des interventions municipales",
		Long:  "cityctl seeds, inspects and exports the municipal interventions database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, root.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", root.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&root.ConfigPath, "config", "c", "", "config file (default ./config.yaml)")
	cmd.PersistentFlags().StringVar(&root.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewStatsCommand(root))
	cmd.AddCommand(NewSeedCommand(root))
	cmd.AddCommand(NewExportCommand(root))
	cmd.AddCommand(NewMigrateCommand(root))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFile(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openContainer wires the services, logs go to stderr so JSON output stays clean
func (o *RootOptions) openContainer(cmd *cobra.Command) (*app.Container, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, flush := logging.NewLogger(cfg, cmd.ErrOrStderr())

	opts := append([]app.Option{
		app.WithLogger(logger),
		app.WithRegistry(prometheus.NewRegistry()),
	}, o.containerOptions...)

	container, err := app.NewContainer(cmd.Context(), cfg, opts...)
	if err != nil {
		flush.Close()
		return nil, nil, err
	}

	closeAll := func() {
		if err := container.Close(); err != nil {
			logger.Warn("container close failed", "err", err)
		}
		flush.Close()
	}
	return container, closeAll, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
