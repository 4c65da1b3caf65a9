package web

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ListUsers(t *testing.T) {
	api := newTestAPI(t)
	// three accounts already exist
	for i := 1; i <= 22; i++ {
		api.createUser(fmt.Sprintf("user%d@ville.tn", i), domain.RoleCitoyen)
	}

	tests := []struct {
		name       string
		query      string
		wantUsers  int
		wantPage   int
		wantLimit  int
		wantTotalP int
	}{
		{name: "default page size", query: "?page=1", wantUsers: 20, wantPage: 1, wantLimit: 20, wantTotalP: 2},
		{name: "second page", query: "?page=2&limit=10", wantUsers: 10, wantPage: 2, wantLimit: 10, wantTotalP: 3},
		{name: "last partial page", query: "?page=3&limit=10", wantUsers: 5, wantPage: 3, wantLimit: 10, wantTotalP: 3},
		{name: "past the end", query: "?page=9&limit=10", wantUsers: 0, wantPage: 9, wantLimit: 10, wantTotalP: 3},
		{name: "limit is capped", query: "?limit=500", wantUsers: 25, wantPage: 1, wantLimit: 100, wantTotalP: 1},
		{name: "garbage falls back to defaults", query: "?page=x&limit=-3", wantUsers: 20, wantPage: 1, wantLimit: 20, wantTotalP: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodGet, "/api/users"+tt.query, nil, api.admin)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			page := decodeBody[UserPage](t, rec)
			assert.Len(t, page.Users, tt.wantUsers)
			assert.Equal(t, 25, page.Pagination.Total)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			assert.Equal(t, tt.wantLimit, page.Pagination.Limit)
			assert.Equal(t, tt.wantTotalP, page.Pagination.TotalPages)
		})
	}

	t.Run("no paging parameters returns a plain array", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/users", nil, api.admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]dto.UserResponse](t, rec), 25)
	})
}

func TestAdmin_UpdateUserRole(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPatch, "/api/users/"+api.citoyen.ID+"/role", dto.UserRoleRequest{Role: "technicien"}, api.admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(domain.RoleTechnicien), decodeBody[dto.UserResponse](t, rec).Role)

	rec = api.do(http.MethodPatch, "/api/users/"+api.citoyen.ID+"/role", dto.UserRoleRequest{Role: "MAIRE"}, api.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPatch, "/api/users/missing/role", dto.UserRoleRequest{Role: "ADMIN"}, api.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_DeleteUser(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodDelete, "/api/users/"+api.citoyen.ID, nil, api.admin)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/users/"+api.citoyen.ID, nil, api.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUser_SelfOrManager(t *testing.T) {
	api := newTestAPI(t)
	patch := dto.UserUpdateRequest{Nom: "Trabelsi", Prenom: "Karim", Email: "citoyen@ville.tn", Disponibilite: true}

	rec := api.do(http.MethodPut, "/api/users/"+api.citoyen.ID, patch, api.citoyen)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Trabelsi", decodeBody[dto.UserResponse](t, rec).Nom)

	rec = api.do(http.MethodPut, "/api/users/"+api.citoyen.ID, patch, api.technicien)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPut, "/api/users/"+api.citoyen.ID, patch, api.admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTechniciensDisponibles(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/users/techniciens/disponibles", nil, api.citoyen)
	require.Equal(t, http.StatusOK, rec.Code)
	techs := decodeBody[[]dto.UserResponse](t, rec)
	require.Len(t, techs, 1)
	assert.Equal(t, api.technicien.ID, techs[0].ID)
}

// Each row is one route guarded by a role or a permission
func TestAuthorization(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		method     string
		target     string
		as         *domain.User
		wantStatus int
	}{
		{name: "anonymous list", method: http.MethodGet, target: "/api/interventions", wantStatus: http.StatusUnauthorized},
		{name: "citizen reads", method: http.MethodGet, target: "/api/interventions", as: api.citoyen, wantStatus: http.StatusOK},
		{name: "citizen changes status", method: http.MethodPatch, target: "/api/interventions/x/statut?nouveauStatut=EN_COURS", as: api.citoyen, wantStatus: http.StatusForbidden},
		{name: "technician deletes", method: http.MethodDelete, target: "/api/interventions/x", as: api.technicien, wantStatus: http.StatusForbidden},
		{name: "admin deletes unknown", method: http.MethodDelete, target: "/api/interventions/x", as: api.admin, wantStatus: http.StatusNotFound},
		{name: "citizen stats", method: http.MethodGet, target: "/api/statistiques/generales", as: api.citoyen, wantStatus: http.StatusForbidden},
		{name: "technician stats", method: http.MethodGet, target: "/api/statistiques/generales", as: api.technicien, wantStatus: http.StatusOK},
		{name: "technician creates equipment", method: http.MethodPost, target: "/api/equipements/create", as: api.technicien, wantStatus: http.StatusForbidden},
		{name: "citizen own queue", method: http.MethodGet, target: "/api/interventions/technicien/me", as: api.citoyen, wantStatus: http.StatusForbidden},
		{name: "admin own queue", method: http.MethodGet, target: "/api/interventions/technicien/me", as: api.admin, wantStatus: http.StatusOK},
		{name: "technician lists users", method: http.MethodGet, target: "/api/users", as: api.technicien, wantStatus: http.StatusForbidden},
		{name: "citizen reads other notifications", method: http.MethodGet, target: "/api/notifications/user/" + api.technicien.ID, as: api.citoyen, wantStatus: http.StatusForbidden},
		{name: "technician all notifications", method: http.MethodGet, target: "/api/notifications/all", as: api.technicien, wantStatus: http.StatusForbidden},
		{name: "technician metrics", method: http.MethodGet, target: "/metrics", as: api.technicien, wantStatus: http.StatusForbidden},
		{name: "admin metrics", method: http.MethodGet, target: "/metrics", as: api.admin, wantStatus: http.StatusOK},
		{name: "anonymous metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.target, nil, tt.as)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
