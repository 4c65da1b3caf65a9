package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/mocks"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryContainer(t *testing.T) (*app.Container, *mocks.MockEventPublisher) {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
		Auth:        config.AuthConfig{JWTSecret: "test-secret-key-with-at-least-32-characters", TokenDuration: time.Hour},
		Security:    config.SecurityConfig{BcryptCost: 4},
		Storage:     config.StorageConfig{Driver: "memory"},
		Events:      config.EventsConfig{Driver: "none"},
	}
	events := mocks.NewMockEventPublisher()
	c, err := app.NewContainer(context.Background(), cfg,
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithRegistry(prometheus.NewRegistry()),
		app.WithDocumentStore(memory.NewDocumentStore()),
		app.WithEventPublisher(events),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, events
}

func loadTestFixtures(t *testing.T) *Fixtures {
	t.Helper()
	fh, err := os.Open("testdata/fixtures.yaml")
	require.NoError(t, err)
	defer fh.Close()

	f, err := LoadFixtures(fh)
	require.NoError(t, err)
	return f
}

func TestLoadFixtures(t *testing.T) {
	f := loadTestFixtures(t)
	assert.Len(t, f.Users, 3)
	assert.Len(t, f.Services, 2)
	require.Len(t, f.Equipements, 1)
	assert.Equal(t, []float64{10.1815, 36.8065}, f.Equipements[0].Localisation)
	assert.Len(t, f.Interventions, 3)

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFixtures(strings.NewReader("usagers:\n  - nom: x\n"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		f, err := LoadFixtures(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, f.Users)
	})
}

func TestApplyFixtures(t *testing.T) {
	ctx := context.Background()
	c, events := memoryContainer(t)

	report, err := ApplyFixtures(ctx, c, loadTestFixtures(t))
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Users: 3, Services: 2, Equipements: 1, Ressources: 1, Interventions: 3}, report)

	stats, err := c.StatistiquesSvc.CalculerStatistiquesGenerales(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, stats.TauxResolution, 1e-9)
	assert.Equal(t, map[string]int{"Voirie": 1, "Éclairage": 1, domain.ServiceInconnu: 1}, stats.NbInterventionsParService)
	assert.Equal(t, map[string]float64{"Ben Ali": 1, "Trabelsi": 0, "Mansour": 0}, stats.PerformanceTechniciens)

	// The completed intervention went through the whole lifecycle
	done, err := c.InterventionSvc.FindByStatut(ctx, "TERMINEE")
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.NotNil(t, done[0].DateDebut)
	assert.NotNil(t, done[0].DateFin)
	assert.Equal(t, domain.UrgenceUrgent, done[0].Urgence)

	equipements, err := c.EquipementSvc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, equipements, 1)
	assert.Len(t, equipements[0].DernieresInterventions, 2)

	notifications, err := c.NotificationSvc.ForUser(ctx, done[0].TechnicienID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	assert.Equal(t, []domain.EventType{
		domain.EventInterventionCreated,
		domain.EventInterventionAssigned,
		domain.EventInterventionStatus,
		domain.EventInterventionDone,
		domain.EventInterventionCreated,
		domain.EventInterventionAssigned,
		domain.EventInterventionStatus,
		domain.EventInterventionCreated,
	}, events.Types())
}

func TestApplyFixtures_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown service ref",
			yaml:    "interventions:\n  - titre: Fuite\n    service: absent\n",
			wantErr: `service inconnu: "absent"`,
		},
		{
			name:    "unknown statut",
			yaml:    "interventions:\n  - titre: Fuite\n    statut: ANNULEE\n",
			wantErr: "statut",
		},
		{
			name:    "invalid user",
			yaml:    "users:\n  - ref: x\n    nom: X\n    prenom: Y\n    email: pas-un-email\n    motDePasse: secret123\n",
			wantErr: "pas-un-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := memoryContainer(t)
			f, err := LoadFixtures(strings.NewReader(tt.yaml))
			require.NoError(t, err)

			_, err = ApplyFixtures(context.Background(), c, f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
