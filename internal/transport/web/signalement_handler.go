package web

import (
	"errors"
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
)

const maxPhotoUpload = 10 << 20

// CreateSignalement records a citizen report / Enregistre un signalement citoyen
func (h *Handler) CreateSignalement(w http.ResponseWriter, r *http.Request) {
	var sig domain.Signalement
	if !decodeJSON(w, r, &sig) {
		return
	}
	created, err := h.container.SignalementSvc.Create(r.Context(), &sig)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListSignalements(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.SignalementSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) GetSignalement(w http.ResponseWriter, r *http.Request) {
	sig, err := h.container.SignalementSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, sig)
}

func (h *Handler) UpdateSignalement(w http.ResponseWriter, r *http.Request) {
	var sig domain.Signalement
	if !decodeJSON(w, r, &sig) {
		return
	}
	updated, err := h.container.SignalementSvc.Update(r.Context(), r.PathValue("id"), &sig)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, updated)
}

// UpdateSignalementStatut applies ?statut= and logs it / Applique le statut et l'historise
func (h *Handler) UpdateSignalementStatut(w http.ResponseWriter, r *http.Request) {
	sig, err := h.container.SignalementSvc.UpdateStatut(r.Context(), r.PathValue("id"), r.URL.Query().Get("statut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, sig)
}

// UploadSignalementPhoto reads the multipart "file" field / Lit le champ multipart "file"
func (h *Handler) UploadSignalementPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, "photo too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, domain.InvalidArgument("fichier requis dans le champ file"))
		return
	}
	defer file.Close()

	sig, err := h.container.SignalementSvc.UploadPhoto(r.Context(), r.PathValue("id"), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, sig)
}

func (h *Handler) UrgentSignalements(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.SignalementSvc.GetUrgents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) SignalementsByCitoyen(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.SignalementSvc.GetByCitoyen(r.Context(), r.PathValue("citoyenId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) SignalementsByType(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.SignalementSvc.GetByType(r.Context(), r.PathValue("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) SignalementsByStatut(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.SignalementSvc.GetByStatut(r.Context(), r.PathValue("statut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// LierSignalementIntervention links ?interventionId= / Lie une intervention
func (h *Handler) LierSignalementIntervention(w http.ResponseWriter, r *http.Request) {
	interventionID := r.URL.Query().Get("interventionId")
	if interventionID == "" {
		writeError(w, r, domain.InvalidArgument("interventionId requis"))
		return
	}
	sig, err := h.container.SignalementSvc.LierIntervention(r.Context(), r.PathValue("id"), interventionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, sig)
}

// ConvertirSignalement opens an intervention from the report / Ouvre une intervention depuis le signalement
func (h *Handler) ConvertirSignalement(w http.ResponseWriter, r *http.Request) {
	sig, res, err := h.container.SignalementSvc.ConvertirEnIntervention(r.Context(), r.PathValue("id"), callerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ConversionResponse{
		Signalement:  sig,
		Intervention: res.Intervention,
		Warnings:     res.Warnings,
	})
}
