package cli

import (
	"io"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/logging"
	"github.com/spf13/cobra"
)

// NewMigrateCommand applies the database migrations only
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, flush := logging.NewLogger(cfg, cmd.ErrOrStderr())
			defer flush.Close()

			if err := app.Migrate(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			res := map[string]string{"database": cfg.Database.Type, "migrations": cfg.Database.MigrationsPath}
			return root.formatter(cmd).Success(res, func(w io.Writer) error {
				printf(w, "Migrations appliquées (%s, %s)\n", cfg.Database.Type, cfg.Database.MigrationsPath)
				return nil
			})
		},
	}
}
