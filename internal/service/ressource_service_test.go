package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRessourceService_RecordUsage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Ampoules LED", QuantiteDisponible: 10, SeuilAlerte: 2, UniteMesure: "pièce"})
	require.NoError(t, err)

	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 3))
	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i2", 3))

	got, err := env.ressources.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.QuantiteDisponible, "two usages of 3 remove 6")
	require.Len(t, got.UtilisationsRecent, 2)
	assert.Equal(t, domain.Utilisation{InterventionID: "i2", QuantiteUtilisee: 3, Date: testNow}, got.UtilisationsRecent[1])
	assert.Equal(t, 6, env.metrics.ResourceUnits)
	assert.Empty(t, env.events.Events, "still above threshold")
}

func TestRessourceService_RecordUsage_NoFloorAndLowStockOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Sable", QuantiteDisponible: 3, SeuilAlerte: 1})
	require.NoError(t, err)

	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 2))
	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 2))

	got, _ := env.ressources.GetByID(ctx, r.ID)
	assert.Equal(t, -1, got.QuantiteDisponible)
	require.Len(t, env.events.Events, 1, "only the crossing emits")
	assert.Equal(t, domain.EventRessourceLowStock, env.events.Events[0].Type)
	assert.Equal(t, r.ID, env.events.Events[0].RessourceID)

	low, err := env.ressources.BelowThreshold(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestRessourceService_RecordUsage_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Peinture", QuantiteDisponible: 5})
	require.NoError(t, err)

	tests := []struct {
		name     string
		id       string
		quantite int
		kind     domain.Kind
	}{
		{"Zero quantity", r.ID, 0, domain.KindInvalidArgument},
		{"Negative quantity", r.ID, -4, domain.KindInvalidArgument},
		{"Missing resource", "missing", 1, domain.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.ressources.RecordUsage(ctx, tt.id, "i1", tt.quantite)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}

	got, _ := env.ressources.GetByID(ctx, r.ID)
	assert.Equal(t, 5, got.QuantiteDisponible)
	assert.Empty(t, got.UtilisationsRecent)
}

func TestRessourceService_LowStockPublishFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.events.PublishError = errors.New("no broker")
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Gravier", QuantiteDisponible: 2, SeuilAlerte: 1})
	require.NoError(t, err)

	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 1))
	assert.Equal(t, 1, env.metrics.SideEffectFailuresFor(domain.TargetEventBus))
}

func TestRessourceService_UpdateKeepsUsageLog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Câble", QuantiteDisponible: 50, SeuilAlerte: 5})
	require.NoError(t, err)
	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 10))

	updated, err := env.ressources.Update(ctx, r.ID, &domain.RessourceMaterielle{Nom: "Câble 2.5mm", QuantiteDisponible: 100, SeuilAlerte: 10, UniteMesure: "m"})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.QuantiteDisponible)
	assert.Equal(t, "m", updated.UniteMesure)
	assert.Len(t, updated.UtilisationsRecent, 1)

	_, err = env.ressources.Update(ctx, "missing", &domain.RessourceMaterielle{Nom: "x"})
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, env.ressources.Delete(ctx, r.ID))
	assert.True(t, domain.IsNotFound(env.ressources.Delete(ctx, r.ID)))
}

func TestRessourceService_CreateIgnoresCallerUsageLog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Ampoules LED", QuantiteDisponible: 100})
	require.NoError(t, err)
	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 3))

	tests := []struct {
		name  string
		draft *domain.RessourceMaterielle
	}{
		{"Existing id", &domain.RessourceMaterielle{ID: r.ID, Nom: "Ampoules LED", QuantiteDisponible: 100}},
		{"Seeded usage log", &domain.RessourceMaterielle{Nom: "Gravier", UtilisationsRecent: []domain.Utilisation{{InterventionID: "forged", QuantiteUtilisee: 9}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := env.ressources.Create(ctx, tt.draft)
			require.NoError(t, err)
			assert.NotEqual(t, r.ID, created.ID)
			assert.Empty(t, created.UtilisationsRecent)
		})
	}

	original, err := env.ressources.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 97, original.QuantiteDisponible)
	assert.Len(t, original.UtilisationsRecent, 1)
}

func TestRessourceService_UpdateIgnoresSuppliedUsageLog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r, err := env.ressources.Create(ctx, &domain.RessourceMaterielle{Nom: "Câble", QuantiteDisponible: 50})
	require.NoError(t, err)
	require.NoError(t, env.ressources.RecordUsage(ctx, r.ID, "i1", 10))

	for _, usages := range [][]domain.Utilisation{{}, {{InterventionID: "forged"}}} {
		updated, err := env.ressources.Update(ctx, r.ID, &domain.RessourceMaterielle{Nom: "Câble", QuantiteDisponible: 40, UtilisationsRecent: usages})
		require.NoError(t, err)
		require.Len(t, updated.UtilisationsRecent, 1)
		assert.Equal(t, "i1", updated.UtilisationsRecent[0].InterventionID)
	}
}
