package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
	"github.com/ahlemhorchani/smart-interventions/internal/export"
)

// CreateIntervention opens a pending intervention / Ouvre une intervention en attente
func (h *Handler) CreateIntervention(w http.ResponseWriter, r *http.Request) {
	var draft domain.Intervention
	if !decodeJSON(w, r, &draft) {
		return
	}
	if draft.CitoyenID == "" && callerRole(r.Context()) == domain.RoleCitoyen {
		draft.CitoyenID = callerID(r.Context())
	}

	res, err := h.container.InterventionSvc.Create(r.Context(), &draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lifecycleResponse(w, http.StatusCreated, res)
}

func (h *Handler) ListInterventions(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) GetIntervention(w http.ResponseWriter, r *http.Request) {
	i, err := h.container.InterventionSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, i)
}

// UpdateIntervention edits fields without recording history / Modifie les champs sans historique
func (h *Handler) UpdateIntervention(w http.ResponseWriter, r *http.Request) {
	var patch domain.Intervention
	if !decodeJSON(w, r, &patch) {
		return
	}

	i, err := h.container.InterventionSvc.Update(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, i)
}

func (h *Handler) DeleteIntervention(w http.ResponseWriter, r *http.Request) {
	if err := h.container.InterventionSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InterventionsByStatut filters by status, unknown tokens yield [] / Filtre par statut
func (h *Handler) InterventionsByStatut(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.FindByStatut(r.Context(), r.PathValue("statut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// ChangeInterventionStatus applies ?nouveauStatut=, the author defaults to the caller
func (h *Handler) ChangeInterventionStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	auteurID := q.Get("auteurId")
	if auteurID == "" {
		auteurID = callerID(r.Context())
	}

	res, err := h.container.InterventionSvc.ChangeStatus(r.Context(), r.PathValue("id"), q.Get("nouveauStatut"), auteurID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lifecycleResponse(w, http.StatusOK, res)
}

// MyInterventions lists the interventions assigned to the calling technician
func (h *Handler) MyInterventions(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.FindByTechnicien(r.Context(), callerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) InterventionsByTechnicien(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.FindByTechnicien(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// ActiveInterventions lists interventions not yet completed / Liste les interventions non terminées
func (h *Handler) ActiveInterventions(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.GetActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// AssignTechnician sets the technician / Affecte le technicien
func (h *Handler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TechnicienID == "" {
		writeError(w, r, domain.InvalidArgument("technicienId requis"))
		return
	}

	res, err := h.container.InterventionSvc.AssignTechnician(r.Context(), r.PathValue("id"), req.TechnicienID, req.TechnicienNom)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lifecycleResponse(w, http.StatusOK, res)
}

// CompleteIntervention closes the intervention, the body is optional / Clôture l'intervention
func (h *Handler) CompleteIntervention(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.container.InterventionSvc.Complete(r.Context(), r.PathValue("id"), req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lifecycleResponse(w, http.StatusOK, res)
}

// AddInterventionComment appends a comment, the author defaults to the caller
func (h *Handler) AddInterventionComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AuteurID == "" {
		req.AuteurID = callerID(r.Context())
	}

	i, err := h.container.InterventionSvc.AddComment(r.Context(), r.PathValue("id"), req.AuteurID, req.Texte)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, i)
}

// ExportInterventions streams every intervention as .xlsx / Exporte les interventions en .xlsx
func (h *Handler) ExportInterventions(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.InterventionSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInterventions(&buf, list); err != nil {
		writeError(w, r, domain.Internal("export interventions", err))
		return
	}
	sendWorkbook(w, "interventions", buf.Bytes())
}

func sendWorkbook(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
