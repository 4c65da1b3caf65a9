package web

import (
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
)

// CreateUser creates an account with any role / Crée un compte avec n'importe quel rôle
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.container.UserSvc.Create(r.Context(), req.ToDomain(), req.MotDePasse)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UserToDTO(user))
}

// GetUser returns one user / Retourne un utilisateur
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.container.UserSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, dto.UserToDTO(user))
}

// UpdateUser edits a profile, callers edit themselves unless they manage users
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id != callerID(r.Context()) && !domain.RoleHasPermission(callerRole(r.Context()), domain.PermissionUsersManage) {
		ErrorResponse(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	var req dto.UserUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.container.UserSvc.Update(r.Context(), id, req.ToDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, dto.UserToDTO(user))
}

// TechniciensDisponibles lists available technicians / Liste les techniciens disponibles
func (h *Handler) TechniciensDisponibles(w http.ResponseWriter, r *http.Request) {
	users, err := h.container.UserSvc.TechniciensDisponibles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, dto.UsersToDTO(users))
}
