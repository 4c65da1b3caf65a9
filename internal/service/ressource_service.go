package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RessourceMetricsRecorder records stock metrics / Enregistre les métriques de stock
type RessourceMetricsRecorder interface {
	RecordResourceUsage(units int)
	RecordSideEffectFailure(target string)
}

// RessourceService manages the consumable stock ledger / Gère le registre des consommables
type RessourceService struct {
	repo    ports.Repository[domain.RessourceMaterielle]
	events  ports.EventPublisher
	metrics RessourceMetricsRecorder
	now     func() time.Time
}

// NewRessourceService creates resource ledger service / Crée le service des ressources
func NewRessourceService(
	repo ports.Repository[domain.RessourceMaterielle],
	events ports.EventPublisher,
	metrics RessourceMetricsRecorder,
) *RessourceService {
	return &RessourceService{repo: repo, events: events, metrics: metrics, now: time.Now}
}

// Create registers a resource / Enregistre une ressource
func (s *RessourceService) Create(ctx context.Context, r *domain.RessourceMaterielle) (*domain.RessourceMaterielle, error) {
	if isBlank(r.Nom) {
		return nil, domain.InvalidArgument("nom requis")
	}
	r.ID = ""
	r.UtilisationsRecent = []domain.Utilisation{}
	return s.repo.Save(ctx, r)
}

// Update overwrites stock settings, the usage log is kept / Met à jour le stock, le journal d'utilisation est conservé
func (s *RessourceService) Update(ctx context.Context, id string, patch *domain.RessourceMaterielle) (*domain.RessourceMaterielle, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if isBlank(patch.Nom) {
		return nil, domain.InvalidArgument("nom requis")
	}

	existing.Nom = patch.Nom
	existing.QuantiteDisponible = patch.QuantiteDisponible
	existing.UniteMesure = patch.UniteMesure
	existing.SeuilAlerte = patch.SeuilAlerte
	if patch.DateDernierApprovisionnement != nil {
		existing.DateDernierApprovisionnement = patch.DateDernierApprovisionnement
	}
	return s.repo.Save(ctx, existing)
}

// Delete removes a resource / Supprime une ressource
func (s *RessourceService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("ressource", id)
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *RessourceService) GetByID(ctx context.Context, id string) (*domain.RessourceMaterielle, error) {
	return s.repo.Get(ctx, id)
}

func (s *RessourceService) GetAll(ctx context.Context) ([]*domain.RessourceMaterielle, error) {
	return s.repo.GetAll(ctx)
}

// BelowThreshold lists resources at or under their alert threshold / Liste les ressources sous le seuil d'alerte
func (s *RessourceService) BelowThreshold(ctx context.Context) ([]*domain.RessourceMaterielle, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.RessourceMaterielle, 0)
	for _, r := range all {
		if r.BelowThreshold() {
			out = append(out, r)
		}
	}
	return out, nil
}

// RecordUsage logs a consumption and decrements the stock without floor / Enregistre une consommation et décrémente le stock sans plancher
func (s *RessourceService) RecordUsage(ctx context.Context, ressourceID, interventionID string, quantite int) error {
	ctx, span := tracer.Start(ctx, "RessourceService.RecordUsage",
		trace.WithAttributes(attribute.String("ressource.id", ressourceID), attribute.Int("quantite", quantite)))
	defer span.End()

	if quantite <= 0 {
		return domain.InvalidArgument("quantité strictement positive requise, reçu %d", quantite)
	}

	r, err := s.repo.Get(ctx, ressourceID)
	if err != nil {
		return err
	}

	wasAbove := !r.BelowThreshold()
	r.Consume(interventionID, quantite, s.now())

	if _, err := s.repo.Save(ctx, r); err != nil {
		slog.Error("failed to record resource usage", "ressource_id", ressourceID, "err", err)
		span.RecordError(err)
		return err
	}
	s.metrics.RecordResourceUsage(quantite)

	if wasAbove && r.BelowThreshold() {
		s.publishLowStock(ctx, r, interventionID)
	}
	return nil
}

func (s *RessourceService) publishLowStock(ctx context.Context, r *domain.RessourceMaterielle, interventionID string) {
	evt := domain.LifecycleEvent{
		Type:           domain.EventRessourceLowStock,
		RessourceID:    r.ID,
		InterventionID: interventionID,
		OccurredAt:     s.now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		slog.Warn("low stock event not published", "ressource_id", r.ID, "err", err)
		s.metrics.RecordSideEffectFailure(domain.TargetEventBus)
	}
}
