package web

import (
	"net/http"
	"strconv"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination describes a page of results
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// UserPage is a paginated user list / Liste paginée d'utilisateurs
type UserPage struct {
	Users      []*dto.UserResponse `json:"users"`
	Pagination Pagination          `json:"pagination"`
}

// ListUsers returns every user, or one page when page or limit is given / Retourne les utilisateurs, paginés sur demande
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.container.UserSvc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Get("page") == "" && q.Get("limit") == "" {
		jsonResponse(w, dto.UsersToDTO(users))
		return
	}

	page, limit := 1, defaultPageSize
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = min(l, maxPageSize)
	}

	total := len(users)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	jsonResponse(w, UserPage{
		Users: dto.UsersToDTO(users[start:end]),
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	})
}

// DeleteUser deletes a user by ID / Supprime un utilisateur par ID
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.container.UserSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUserRole changes a user role / Met à jour le rôle d'un utilisateur
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.container.UserSvc.UpdateUserRole(r.Context(), r.PathValue("id"), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, dto.UserToDTO(user))
}
