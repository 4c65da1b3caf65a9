package web

import (
	"context"
	"net/http"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkNotificationRead_RecipientsOnly(t *testing.T) {
	api := newTestAPI(t)
	other := api.createUser("voisin@ville.tn", domain.RoleCitoyen)

	tests := []struct {
		name       string
		as         *domain.User
		wantStatus int
	}{
		{"Another citizen", other, http.StatusForbidden},
		{"Unrelated technician", api.technicien, http.StatusForbidden},
		{"Recipient citizen", api.citoyen, http.StatusOK},
		{"Manager", api.admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := api.container.NotificationSvc.Send(context.Background(), &domain.Notification{
				Message:   "Votre signalement est pris en charge",
				CitoyenID: api.citoyen.ID,
			})
			require.NoError(t, err)

			rec := api.do(http.MethodPut, "/api/notifications/"+n.ID+"/read", nil, tt.as)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			got, err := api.container.NotificationSvc.GetByID(context.Background(), n.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus == http.StatusOK, got.StatutLecture)
		})
	}
}

func TestMarkNotificationRead_AssignedTechnician(t *testing.T) {
	api := newTestAPI(t)
	n, err := api.container.NotificationSvc.Send(context.Background(), &domain.Notification{
		Message:      "Nouvelle intervention",
		TechnicienID: api.technicien.ID,
	})
	require.NoError(t, err)

	rec := api.do(http.MethodPut, "/api/notifications/"+n.ID+"/read", nil, api.technicien)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[domain.Notification](t, rec).StatutLecture)

	rec = api.do(http.MethodPut, "/api/notifications/missing/read", nil, api.technicien)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
