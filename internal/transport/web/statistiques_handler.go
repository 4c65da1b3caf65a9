package web

import (
	"bytes"
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/export"
)

// StatistiquesGenerales returns the dashboard aggregate / Retourne l'agrégat du tableau de bord
func (h *Handler) StatistiquesGenerales(w http.ResponseWriter, r *http.Request) {
	stats, err := h.container.StatistiquesSvc.CalculerStatistiquesGenerales(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, stats)
}

// ExportStatistiques returns the aggregate as .xlsx
func (h *Handler) ExportStatistiques(w http.ResponseWriter, r *http.Request) {
	stats, err := h.container.StatistiquesSvc.CalculerStatistiquesGenerales(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStatistiques(&buf, stats); err != nil {
		writeError(w, r, domain.Internal("export statistiques", err))
		return
	}
	sendWorkbook(w, "statistiques", buf.Bytes())
}
