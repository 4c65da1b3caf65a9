// Package export renders interventions and statistics as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02 15:04"

// InterventionsHeader lists the intervention sheet columns / Colonnes de la feuille des interventions
var InterventionsHeader = []string{
	"ID", "Titre", "Type", "Urgence", "Statut",
	"Date création", "Date début", "Date fin", "Durée (h)",
	"Technicien", "Équipement", "Service", "Commentaires",
}

var interventionWidths = []float64{38, 32, 16, 10, 12, 18, 18, 18, 10, 38, 38, 38, 12}

// sheet wraps a workbook with one styled, frozen-header sheet
type sheet struct {
	f    *excelize.File
	name string
	row  int
}

func newSheet(name string, header []string, widths []float64) (*sheet, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	s := &sheet{f: f, name: name, row: 1}
	if err := s.append(toAny(header)...); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(name, col, col, w); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}
	return s, nil
}

// append writes one row and advances the cursor
func (s *sheet) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", s.row, err)
	}
	s.row++
	return nil
}

func (s *sheet) writeTo(w io.Writer) error {
	defer s.f.Close()
	if _, err := s.f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// WriteInterventions renders one row per intervention / Une ligne par intervention
func WriteInterventions(w io.Writer, interventions []*domain.Intervention) error {
	s, err := newSheet("Interventions", InterventionsHeader, interventionWidths)
	if err != nil {
		return err
	}

	for _, i := range interventions {
		var duree any = ""
		if d, ok := i.Duration(); ok {
			duree = d.Hours()
		}
		created := i.DateCreation
		if err := s.append(
			i.ID, i.Titre, i.Type, string(i.Urgence), string(i.Statut),
			formatDate(&created), formatDate(i.DateDebut), formatDate(i.DateFin), duree,
			i.TechnicienID, i.EquipementID, i.ServiceMunicipalID, len(i.Commentaires),
		); err != nil {
			s.f.Close()
			return err
		}
	}
	return s.writeTo(w)
}

// WriteStatistiques renders indicators as key/value rows / Indicateurs en lignes clé/valeur
func WriteStatistiques(w io.Writer, stats *domain.Statistiques) error {
	s, err := newSheet("Statistiques", []string{"Indicateur", "Clé", "Valeur"}, []float64{34, 30, 14})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Taux de résolution", "", stats.TauxResolution},
		{"Temps moyen d'intervention (h)", "", stats.TempsMoyenIntervention},
		{"Taux de satisfaction citoyens", "", stats.TauxSatisfactionCitoyens},
	}
	for _, k := range sortedKeys(stats.NbInterventionsParService) {
		rows = append(rows, []any{"Interventions par service", k, stats.NbInterventionsParService[k]})
	}
	for _, k := range sortedKeys(stats.NbInterventionsParZone) {
		rows = append(rows, []any{"Interventions par zone", k, stats.NbInterventionsParZone[k]})
	}
	for _, k := range sortedKeys(stats.PerformanceTechniciens) {
		rows = append(rows, []any{"Performance technicien", k, stats.PerformanceTechniciens[k]})
	}
	if len(stats.TopZonesProblemes) > 0 {
		rows = append(rows, []any{"Zones à problèmes", "", strings.Join(stats.TopZonesProblemes, ", ")})
	}

	for _, r := range rows {
		if err := s.append(r...); err != nil {
			s.f.Close()
			return err
		}
	}
	return s.writeTo(w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
