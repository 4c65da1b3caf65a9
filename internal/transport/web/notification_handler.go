package web

import (
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
)

func canManageNotifications(r *http.Request) bool {
	return domain.RoleHasPermission(callerRole(r.Context()), domain.PermissionUsersManage)
}

// UserNotifications lists notifications addressed to a user / Liste les notifications d'un utilisateur
func (h *Handler) UserNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID != callerID(r.Context()) && !canManageNotifications(r) {
		ErrorResponse(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	list, err := h.container.NotificationSvc.ForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.container.NotificationSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, list)
}

// MarkNotificationRead is limited to the recipients and managers / Réservé aux destinataires et gestionnaires
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("notifId")
	existing, err := h.container.NotificationSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	caller := callerID(r.Context())
	if caller != existing.CitoyenID && caller != existing.TechnicienID && !canManageNotifications(r) {
		ErrorResponse(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	n, err := h.container.NotificationSvc.MarkAsRead(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, n)
}

// SendNotification stores a new unread notification / Enregistre une notification non lue
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var n domain.Notification
	if !decodeJSON(w, r, &n) {
		return
	}
	created, err := h.container.NotificationSvc.Send(r.Context(), &n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
