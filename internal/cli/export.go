package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/export"
	"github.com/spf13/cobra"
)

// ExportResult describes the written workbook
type ExportResult struct {
	What string `json:"what"`
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// NewExportCommand writes an xlsx workbook / Écrit un classeur xlsx
func NewExportCommand(root *RootOptions) *cobra.Command {
	var what, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export interventions or statistics as an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if what != "interventions" && what != "statistiques" {
				return fmt.Errorf("invalid --what %q: must be interventions or statistiques", what)
			}

			container, closeAll, err := root.openContainer(cmd)
			if err != nil {
				return err
			}
			defer closeAll()

			fh, err := os.Create(out)
			if err != nil {
				return err
			}

			rows, err := writeExport(cmd, container, what, fh)
			if cerr := fh.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return errors.Join(err, os.Remove(out))
			}

			res := ExportResult{What: what, Path: out, Rows: rows}
			return root.formatter(cmd).Success(res, func(w io.Writer) error {
				printf(w, "%s: %d lignes écrites dans %s\n", res.What, res.Rows, res.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&what, "what", "interventions", "dataset to export (interventions|statistiques)")
	cmd.Flags().StringVarP(&out, "out", "o", "export.xlsx", "output file")
	return cmd
}

func writeExport(cmd *cobra.Command, c *app.Container, what string, w io.Writer) (int, error) {
	ctx := cmd.Context()
	if what == "statistiques" {
		stats, err := c.StatistiquesSvc.CalculerStatistiquesGenerales(ctx)
		if err != nil {
			return 0, err
		}
		rows := 3 + len(stats.NbInterventionsParService) + len(stats.NbInterventionsParZone) + len(stats.PerformanceTechniciens)
		if len(stats.TopZonesProblemes) > 0 {
			rows++
		}
		return rows, export.WriteStatistiques(w, stats)
	}

	interventions, err := c.InterventionSvc.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(interventions), export.WriteInterventions(w, interventions)
}
