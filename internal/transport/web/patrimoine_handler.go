package web

import (
	"net/http"
	"strconv"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
)

// Equipment registry / Registre des équipements

func (h *Handler) ListEquipements(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.EquipementSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) GetEquipement(w http.ResponseWriter, r *http.Request) {
	e, err := h.container.EquipementSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, e)
}

func (h *Handler) CreateEquipement(w http.ResponseWriter, r *http.Request) {
	var e domain.Equipement
	if !decodeJSON(w, r, &e) {
		return
	}
	created, err := h.container.EquipementSvc.Create(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEquipement(w http.ResponseWriter, r *http.Request) {
	var e domain.Equipement
	if !decodeJSON(w, r, &e) {
		return
	}
	updated, err := h.container.EquipementSvc.Update(r.Context(), r.PathValue("id"), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, updated)
}

func (h *Handler) DeleteEquipement(w http.ResponseWriter, r *http.Request) {
	if err := h.container.EquipementSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EquipementsByEtat filters by state, unknown tokens yield []
func (h *Handler) EquipementsByEtat(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.EquipementSvc.FindByEtat(r.Context(), r.PathValue("etat"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// AddEquipementIntervention appends a history summary / Ajoute un résumé à l'historique
func (h *Handler) AddEquipementIntervention(w http.ResponseWriter, r *http.Request) {
	var req dto.InterventionSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.container.EquipementSvc.AddInterventionSummary(r.Context(),
		r.PathValue("equipementId"), req.InterventionID, req.Titre, req.Technicien)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, e)
}

// Resource ledger / Registre des ressources

func (h *Handler) CreateRessource(w http.ResponseWriter, r *http.Request) {
	var res domain.RessourceMaterielle
	if !decodeJSON(w, r, &res) {
		return
	}
	created, err := h.container.RessourceSvc.Create(r.Context(), &res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateRessource(w http.ResponseWriter, r *http.Request) {
	var res domain.RessourceMaterielle
	if !decodeJSON(w, r, &res) {
		return
	}
	updated, err := h.container.RessourceSvc.Update(r.Context(), r.PathValue("id"), &res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, updated)
}

func (h *Handler) DeleteRessource(w http.ResponseWriter, r *http.Request) {
	if err := h.container.RessourceSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetRessource(w http.ResponseWriter, r *http.Request) {
	res, err := h.container.RessourceSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, res)
}

func (h *Handler) ListRessources(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.RessourceSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// RecordRessourceUsage consumes ?quantite= units for ?interventionId= / Consomme des unités
func (h *Handler) RecordRessourceUsage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quantite, err := strconv.Atoi(q.Get("quantite"))
	if err != nil {
		writeError(w, r, domain.InvalidArgument("quantite invalide: %q", q.Get("quantite")))
		return
	}

	id := r.PathValue("id")
	if err := h.container.RessourceSvc.RecordUsage(r.Context(), id, q.Get("interventionId"), quantite); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.container.RessourceSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, res)
}

// RessourceAlertes lists resources at or below their threshold / Liste les ressources sous le seuil
func (h *Handler) RessourceAlertes(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.RessourceSvc.BelowThreshold(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// Municipal services / Services municipaux

func (h *Handler) CreateServiceMunicipal(w http.ResponseWriter, r *http.Request) {
	var svc domain.ServiceMunicipal
	if !decodeJSON(w, r, &svc) {
		return
	}
	created, err := h.container.ServiceMunicipalSvc.Create(r.Context(), &svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListServicesMunicipaux(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.ServiceMunicipalSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) GetServiceMunicipal(w http.ResponseWriter, r *http.Request) {
	svc, err := h.container.ServiceMunicipalSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, svc)
}

func (h *Handler) UpdateServiceMunicipal(w http.ResponseWriter, r *http.Request) {
	var svc domain.ServiceMunicipal
	if !decodeJSON(w, r, &svc) {
		return
	}
	updated, err := h.container.ServiceMunicipalSvc.Update(r.Context(), r.PathValue("id"), &svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, updated)
}

func (h *Handler) DeleteServiceMunicipal(w http.ResponseWriter, r *http.Request) {
	if err := h.container.ServiceMunicipalSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddServiceIntervention pushes a snapshot into the activity feed / Ajoute un instantané au fil d'activité
func (h *Handler) AddServiceIntervention(w http.ResponseWriter, r *http.Request) {
	var req dto.RecentInterventionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc, err := h.container.ServiceMunicipalSvc.AddRecentIntervention(r.Context(),
		r.PathValue("serviceId"), req.Titre, req.Statut, req.Urgence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, svc)
}

// SearchServicesMunicipaux matches ?nom= ignoring case
func (h *Handler) SearchServicesMunicipaux(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.ServiceMunicipalSvc.SearchByName(r.Context(), r.URL.Query().Get("nom"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}
