package cli

import (
	"io"
	"maps"
	"slices"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/spf13/cobra"
)

// NewStatsCommand prints the dashboard figures / Affiche les indicateurs
func NewStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print intervention statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, closeAll, err := root.openContainer(cmd)
			if err != nil {
				return err
			}
			defer closeAll()

			stats, err := container.StatistiquesSvc.CalculerStatistiquesGenerales(cmd.Context())
			if err != nil {
				return err
			}
			return renderStatistiques(root.formatter(cmd), stats)
		},
	}
}

func renderStatistiques(f *OutputFormatter, stats *domain.Statistiques) error {
	return f.Success(stats, func(w io.Writer) error {
		printf(w, "Taux de résolution: %.1f %%\n", stats.TauxResolution*100)
		printf(w, "Temps moyen d'intervention: %.2f h\n", stats.TempsMoyenIntervention)
		printf(w, "Satisfaction citoyens: %.1f %%\n", stats.TauxSatisfactionCitoyens*100)
		printCounts(w, "Interventions par service", stats.NbInterventionsParService)
		printCounts(w, "Interventions par zone", stats.NbInterventionsParZone)
		printCounts(w, "Performance des techniciens", stats.PerformanceTechniciens)

		if len(stats.TopZonesProblemes) == 0 {
			printf(w, "Zones les plus problématiques: aucune\n")
			return nil
		}
		printf(w, "Zones les plus problématiques:\n")
		for _, z := range stats.TopZonesProblemes {
			printf(w, "  %s\n", z)
		}
		return nil
	})
}

func printCounts[V int | float64](w io.Writer, title string, m map[string]V) {
	if len(m) == 0 {
		printf(w, "%s: aucune\n", title)
		return
	}
	printf(w, "%s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		printf(w, "  %s: %v\n", k, m[k])
	}
}
