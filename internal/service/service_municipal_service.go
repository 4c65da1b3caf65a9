package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ServiceMunicipalService manages municipal departments and their activity feed / Gère les services municipaux et leur fil d'activité
type ServiceMunicipalService struct {
	repo ports.Repository[domain.ServiceMunicipal]
	now  func() time.Time
}

// NewServiceMunicipalService creates municipal service manager / Crée le gestionnaire des services municipaux
func NewServiceMunicipalService(repo ports.Repository[domain.ServiceMunicipal]) *ServiceMunicipalService {
	return &ServiceMunicipalService{repo: repo, now: time.Now}
}

// Create stamps and persists a service / Horodate et enregistre un service
func (s *ServiceMunicipalService) Create(ctx context.Context, svc *domain.ServiceMunicipal) (*domain.ServiceMunicipal, error) {
	if isBlank(svc.Nom) {
		return nil, domain.InvalidArgument("nom requis")
	}
	svc.ID = ""
	svc.DateCreation = s.now()
	svc.InterventionsRecent = []domain.InterventionRecente{}
	return s.repo.Save(ctx, svc)
}

// Update overwrites name and description, the feed is kept / Met à jour nom et description, le fil est conservé
func (s *ServiceMunicipalService) Update(ctx context.Context, id string, patch *domain.ServiceMunicipal) (*domain.ServiceMunicipal, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Nom = patch.Nom
	existing.Description = patch.Description
	return s.repo.Save(ctx, existing)
}

// Delete removes a service / Supprime un service
func (s *ServiceMunicipalService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("service municipal", id)
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *ServiceMunicipalService) GetByID(ctx context.Context, id string) (*domain.ServiceMunicipal, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceMunicipalService) GetAll(ctx context.Context) ([]*domain.ServiceMunicipal, error) {
	return s.repo.GetAll(ctx)
}

// SearchByName scans every service for a case-insensitive substring / Recherche une sous-chaîne sans tenir compte de la casse
func (s *ServiceMunicipalService) SearchByName(ctx context.Context, substring string) ([]*domain.ServiceMunicipal, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := foldName(substring)
	out := make([]*domain.ServiceMunicipal, 0)
	for _, svc := range all {
		if strings.Contains(foldName(svc.Nom), needle) {
			out = append(out, svc)
		}
	}
	return out, nil
}

// foldName case-folds NFC text. A Caser is stateful, one per call.
func foldName(v string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(v)))
}

// AddRecentIntervention appends a snapshot to the activity feed / Ajoute un instantané au fil d'activité
func (s *ServiceMunicipalService) AddRecentIntervention(ctx context.Context, serviceID, titre, statut, urgence string) (*domain.ServiceMunicipal, error) {
	svc, err := s.repo.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseStatut(statut)
	if err != nil {
		return nil, err
	}
	u, err := domain.ParseUrgence(urgence)
	if err != nil {
		return nil, err
	}

	svc.InterventionsRecent = append(svc.InterventionsRecent, domain.InterventionRecente{
		Titre:        titre,
		Statut:       st,
		DateCreation: s.now(),
		Urgence:      u,
	})

	saved, err := s.repo.Save(ctx, svc)
	if err != nil {
		slog.Error("failed to append service activity", "service_id", serviceID, "err", err)
		return nil, err
	}
	return saved, nil
}
