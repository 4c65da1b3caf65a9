package service

import (
	"context"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipementService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	e, err := env.equipements.Create(ctx, &domain.Equipement{
		Type:         "Lampadaire",
		Localisation: &domain.GeoPoint{Coordinates: []float64{10.18, 36.80}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EtatFonctionnel, e.Etat, "absent state defaults")
	assert.Equal(t, "Point", e.Localisation.Type)
	assert.NotNil(t, e.DernieresInterventions)

	_, err = env.equipements.Create(ctx, &domain.Equipement{Type: "Banc", Etat: "CASSE"})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = env.equipements.Create(ctx, &domain.Equipement{Type: "Banc", Localisation: &domain.GeoPoint{Coordinates: []float64{1}}})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestEquipementService_FindByEtat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.equipements.Create(ctx, &domain.Equipement{Type: "Fontaine", Etat: "defectueux"})
	require.NoError(t, err)
	_, err = env.equipements.Create(ctx, &domain.Equipement{Type: "Horodateur"})
	require.NoError(t, err)

	tests := []struct {
		token string
		want  int
	}{
		{"DEFECTUEUX", 1},
		{"fonctionnel", 1},
		{"EN_PANNE", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := env.equipements.FindByEtat(ctx, tt.token)
			require.NoError(t, err, "unknown tokens yield an empty list")
			assert.Len(t, got, tt.want)
		})
	}
}

func TestEquipementService_AddInterventionSummary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	e, err := env.equipements.Create(ctx, &domain.Equipement{Type: "Abribus"})
	require.NoError(t, err)

	for range 2 {
		_, err = env.equipements.AddInterventionSummary(ctx, e.ID, "i1", "Vitre brisée", "Sami")
		require.NoError(t, err)
	}

	got, _ := env.equipements.GetByID(ctx, e.ID)
	require.Len(t, got.DernieresInterventions, 2, "no dedup")
	assert.Equal(t, domain.InterventionSummary{InterventionID: "i1", Titre: "Vitre brisée", Date: testNow, Technicien: "Sami"}, got.DernieresInterventions[0])

	_, err = env.equipements.AddInterventionSummary(ctx, "missing", "i1", "x", "y")
	assert.True(t, domain.IsNotFound(err))
}

func TestEquipementService_UpdateKeepsHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	e, err := env.equipements.Create(ctx, &domain.Equipement{Type: "Abribus", Adresse: "Rue A"})
	require.NoError(t, err)
	_, err = env.equipements.AddInterventionSummary(ctx, e.ID, "i1", "Vitre", "Sami")
	require.NoError(t, err)

	updated, err := env.equipements.Update(ctx, e.ID, &domain.Equipement{Type: "Abribus", Adresse: "Rue B", Etat: "DEFECTUEUX"})
	require.NoError(t, err)
	assert.Equal(t, "Rue B", updated.Adresse)
	assert.Equal(t, domain.EtatDefectueux, updated.Etat)
	assert.Len(t, updated.DernieresInterventions, 1)

	require.NoError(t, env.equipements.Delete(ctx, e.ID))
	assert.True(t, domain.IsNotFound(env.equipements.Delete(ctx, e.ID)))
}

func TestEquipementService_CreateIgnoresCallerHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	e, err := env.equipements.Create(ctx, &domain.Equipement{Type: "Lampadaire"})
	require.NoError(t, err)
	_, err = env.equipements.AddInterventionSummary(ctx, e.ID, "i1", "Ampoule grillée", "Sami")
	require.NoError(t, err)

	tests := []struct {
		name  string
		draft *domain.Equipement
	}{
		{"Existing id", &domain.Equipement{ID: e.ID, Type: "Banc"}},
		{"Seeded history", &domain.Equipement{Type: "Banc", DernieresInterventions: []domain.InterventionSummary{{InterventionID: "forged", Titre: "fake"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := env.equipements.Create(ctx, tt.draft)
			require.NoError(t, err)
			assert.NotEqual(t, e.ID, created.ID)
			assert.Empty(t, created.DernieresInterventions)
		})
	}

	original, err := env.equipements.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lampadaire", original.Type)
	require.Len(t, original.DernieresInterventions, 1)
	assert.Equal(t, "i1", original.DernieresInterventions[0].InterventionID)
}

func TestEquipementService_UpdateIgnoresSuppliedHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	e, err := env.equipements.Create(ctx, &domain.Equipement{Type: "Abribus"})
	require.NoError(t, err)
	_, err = env.equipements.AddInterventionSummary(ctx, e.ID, "i1", "Vitre", "Sami")
	require.NoError(t, err)

	for _, history := range [][]domain.InterventionSummary{{}, {{InterventionID: "forged"}}} {
		updated, err := env.equipements.Update(ctx, e.ID, &domain.Equipement{Type: "Abribus", DernieresInterventions: history})
		require.NoError(t, err)
		require.Len(t, updated.DernieresInterventions, 1)
		assert.Equal(t, "i1", updated.DernieresInterventions[0].InterventionID)
	}
}
