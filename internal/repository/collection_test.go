package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*memory.DocumentStore
	err error
}

func (f *failingStore) GetAll(context.Context, string) ([][]byte, error) { return nil, f.err }

func TestCollection_RoundTrip(t *testing.T) {
	adapter := NewAdapterWithStore(memory.NewDocumentStore())
	repo := adapter.Equipements()
	ctx := context.Background()

	eq, err := repo.Save(ctx, &domain.Equipement{Type: "lampadaire", Etat: domain.EtatFonctionnel, Localisation: domain.NewGeoPoint(10.18, 36.8)})
	require.NoError(t, err)
	require.NotEmpty(t, eq.ID)

	got, err := repo.Get(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, "lampadaire", got.Type)
	assert.Equal(t, []float64{10.18, 36.8}, got.Localisation.Coordinates)

	exists, err := repo.ExistsByID(ctx, eq.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, eq.ID))
	_, err = repo.Get(ctx, eq.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestCollection_KeepsCallerID(t *testing.T) {
	repo := NewAdapterWithStore(memory.NewDocumentStore()).ServicesMunicipaux()

	svc, err := repo.Save(context.Background(), &domain.ServiceMunicipal{ID: "voirie", Nom: "Voirie"})
	require.NoError(t, err)
	assert.Equal(t, "voirie", svc.ID)
}

func TestCollection_WrapsStoreFailures(t *testing.T) {
	boom := errors.New("disk full")
	repo := NewAdapterWithStore(&failingStore{DocumentStore: memory.NewDocumentStore(), err: boom}).Interventions()

	_, err := repo.GetAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestCollection_FindByInvalidField(t *testing.T) {
	repo := NewAdapterWithStore(memory.NewDocumentStore()).Signalements()

	_, err := repo.FindBy(context.Background(), "statut;drop", "RECU")
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}
