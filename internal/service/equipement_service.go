package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

// EquipementService manages the equipment registry / Gère le registre des équipements
type EquipementService struct {
	repo ports.Repository[domain.Equipement]
	now  func() time.Time
}

// NewEquipementService creates equipment service / Crée le service des équipements
func NewEquipementService(repo ports.Repository[domain.Equipement]) *EquipementService {
	return &EquipementService{repo: repo, now: time.Now}
}

// resolveEtat defaults an empty state and rejects unknown ones
func resolveEtat(e domain.Etat) (domain.Etat, error) {
	if strings.TrimSpace(string(e)) == "" {
		return domain.EtatFonctionnel, nil
	}
	return domain.ParseEtat(string(e))
}

func normalizeLocalisation(p *domain.GeoPoint) (*domain.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	if len(p.Coordinates) != 2 {
		return nil, domain.InvalidArgument("localisation: deux coordonnées [lon, lat] attendues")
	}
	return domain.NewGeoPoint(p.Coordinates[0], p.Coordinates[1]), nil
}

// Create registers a new equipment / Enregistre un nouvel équipement
func (s *EquipementService) Create(ctx context.Context, e *domain.Equipement) (*domain.Equipement, error) {
	etat, err := resolveEtat(e.Etat)
	if err != nil {
		return nil, err
	}
	loc, err := normalizeLocalisation(e.Localisation)
	if err != nil {
		return nil, err
	}

	// the history is only fed by intervention side effects
	e.ID = ""
	e.Etat = etat
	e.Localisation = loc
	e.DernieresInterventions = []domain.InterventionSummary{}
	return s.repo.Save(ctx, e)
}

// Update overwrites descriptive fields, history is kept / Met à jour les champs descriptifs, l'historique est conservé
func (s *EquipementService) Update(ctx context.Context, id string, patch *domain.Equipement) (*domain.Equipement, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	etat := existing.Etat
	if strings.TrimSpace(string(patch.Etat)) != "" {
		if etat, err = domain.ParseEtat(string(patch.Etat)); err != nil {
			return nil, err
		}
	}
	loc, err := normalizeLocalisation(patch.Localisation)
	if err != nil {
		return nil, err
	}

	existing.Type = patch.Type
	existing.Adresse = patch.Adresse
	existing.Etat = etat
	existing.Localisation = loc
	return s.repo.Save(ctx, existing)
}

// Delete removes an equipment / Supprime un équipement
func (s *EquipementService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("equipement", id)
	}
	return s.repo.DeleteByID(ctx, id)
}

// GetByID retrieves one equipment / Récupère un équipement
func (s *EquipementService) GetByID(ctx context.Context, id string) (*domain.Equipement, error) {
	return s.repo.Get(ctx, id)
}

// GetAll lists every equipment / Liste tous les équipements
func (s *EquipementService) GetAll(ctx context.Context) ([]*domain.Equipement, error) {
	return s.repo.GetAll(ctx)
}

// FindByEtat filters by state, unknown tokens match nothing / Filtre par état, un état inconnu ne renvoie rien
func (s *EquipementService) FindByEtat(ctx context.Context, token string) ([]*domain.Equipement, error) {
	etat, err := domain.ParseEtat(token)
	if err != nil {
		return []*domain.Equipement{}, nil
	}
	return s.repo.FindBy(ctx, "etat", string(etat))
}

// AddInterventionSummary appends to the equipment history / Ajoute à l'historique de l'équipement
func (s *EquipementService) AddInterventionSummary(ctx context.Context, equipementID, interventionID, titre, technicien string) (*domain.Equipement, error) {
	e, err := s.repo.Get(ctx, equipementID)
	if err != nil {
		return nil, err
	}

	e.DernieresInterventions = append(e.DernieresInterventions, domain.InterventionSummary{
		InterventionID: interventionID,
		Titre:          titre,
		Date:           s.now(),
		Technicien:     technicien,
	})

	saved, err := s.repo.Save(ctx, e)
	if err != nil {
		slog.Error("failed to append equipment history", "equipement_id", equipementID, "err", err)
		return nil, err
	}
	return saved, nil
}
