package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LifecycleMetricsRecorder records lifecycle metrics / Enregistre les métriques du cycle de vie
type LifecycleMetricsRecorder interface {
	RecordInterventionCreated(urgence string)
	RecordStatusTransition(from, to string)
	RecordInterventionCompleted()
}

// InterventionService drives the intervention lifecycle / Pilote le cycle de vie des interventions
type InterventionService struct {
	repo       ports.Repository[domain.Intervention]
	propagator *Propagator
	metrics    LifecycleMetricsRecorder
	now        func() time.Time
}

// NewInterventionService creates lifecycle engine / Crée le moteur de cycle de vie
func NewInterventionService(
	repo ports.Repository[domain.Intervention],
	propagator *Propagator,
	metrics LifecycleMetricsRecorder,
) *InterventionService {
	return &InterventionService{repo: repo, propagator: propagator, metrics: metrics, now: time.Now}
}

// resolveUrgence defaults an empty urgency to NORMAL and rejects unknown ones
func resolveUrgence(u domain.Urgence) (domain.Urgence, error) {
	if strings.TrimSpace(string(u)) == "" {
		return domain.UrgenceNormal, nil
	}
	return domain.ParseUrgence(string(u))
}

func startSpan(ctx context.Context, name, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("intervention.id", id)))
}

// Create persists a new pending intervention / Enregistre une nouvelle intervention en attente
func (s *InterventionService) Create(ctx context.Context, draft *domain.Intervention) (*domain.LifecycleResult, error) {
	ctx, span := tracer.Start(ctx, "InterventionService.Create")
	defer span.End()

	if isBlank(draft.Titre) {
		return nil, domain.InvalidArgument("titre requis")
	}
	urgence, err := resolveUrgence(draft.Urgence)
	if err != nil {
		return nil, err
	}

	draft.ID = ""
	draft.Urgence = urgence
	draft.Statut = domain.StatutEnAttente
	draft.DateCreation = s.now()
	draft.DateDebut = nil
	draft.DateFin = nil
	draft.HistoriqueStatut = []domain.HistoriqueStatut{}
	draft.Commentaires = []domain.Commentaire{}

	saved, err := s.repo.Save(ctx, draft)
	if err != nil {
		slog.Error("failed to create intervention", "err", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("intervention.id", saved.ID))
	s.metrics.RecordInterventionCreated(string(saved.Urgence))

	return &domain.LifecycleResult{
		Intervention: saved,
		Warnings:     s.propagator.Created(ctx, saved),
	}, nil
}

// Update overwrites editable fields without touching the history / Met à jour sans toucher l'historique
func (s *InterventionService) Update(ctx context.Context, id string, patch *domain.Intervention) (*domain.Intervention, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(string(patch.Urgence)) != "" {
		if existing.Urgence, err = domain.ParseUrgence(string(patch.Urgence)); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(string(patch.Statut)) != "" {
		if existing.Statut, err = domain.ParseStatut(string(patch.Statut)); err != nil {
			return nil, err
		}
	}
	existing.Titre = patch.Titre
	existing.Type = patch.Type
	existing.Description = patch.Description

	return s.repo.Save(ctx, existing)
}

// ChangeStatus records a transition, any transition is allowed / Enregistre une transition, toutes sont permises
func (s *InterventionService) ChangeStatus(ctx context.Context, id, token, auteurID string) (*domain.LifecycleResult, error) {
	ctx, span := startSpan(ctx, "InterventionService.ChangeStatus", id)
	defer span.End()

	statut, err := domain.ParseStatut(token)
	if err != nil {
		return nil, err
	}
	i, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := i.ChangeStatut(statut, auteurID, s.now())
	saved, err := s.repo.Save(ctx, i)
	if err != nil {
		slog.Error("failed to change intervention status", "intervention_id", id, "err", err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.RecordStatusTransition(string(entry.AncienStatut), string(entry.NouveauStatut))

	return &domain.LifecycleResult{
		Intervention: saved,
		Warnings:     s.propagator.StatusChanged(ctx, saved, entry.AncienStatut),
	}, nil
}

// AssignTechnician sets the technician and logs a system comment / Affecte le technicien et ajoute un commentaire système
func (s *InterventionService) AssignTechnician(ctx context.Context, id, technicienID, technicienNom string) (*domain.LifecycleResult, error) {
	ctx, span := startSpan(ctx, "InterventionService.AssignTechnician", id)
	defer span.End()

	i, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	i.TechnicienID = technicienID
	i.AddCommentaire(domain.SystemAuthor, fmt.Sprintf("Technicien %s assigné à l'intervention", technicienNom), s.now())

	saved, err := s.repo.Save(ctx, i)
	if err != nil {
		slog.Error("failed to assign technician", "intervention_id", id, "err", err)
		span.RecordError(err)
		return nil, err
	}

	return &domain.LifecycleResult{
		Intervention: saved,
		Warnings:     s.propagator.Assigned(ctx, saved, technicienNom),
	}, nil
}

// Complete closes the intervention as a system transition / Clôture l'intervention
func (s *InterventionService) Complete(ctx context.Context, id, notes string) (*domain.LifecycleResult, error) {
	ctx, span := startSpan(ctx, "InterventionService.Complete", id)
	defer span.End()

	i, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := i.ChangeStatut(domain.StatutTerminee, domain.SystemAuthor, now)
	i.DateFin = &now
	if !isBlank(notes) {
		i.AddCommentaire(domain.SystemAuthor, "Notes de fin: "+notes, now)
	}

	saved, err := s.repo.Save(ctx, i)
	if err != nil {
		slog.Error("failed to complete intervention", "intervention_id", id, "err", err)
		span.RecordError(err)
		return nil, err
	}
	s.metrics.RecordStatusTransition(string(entry.AncienStatut), string(entry.NouveauStatut))
	s.metrics.RecordInterventionCompleted()

	return &domain.LifecycleResult{
		Intervention: saved,
		Warnings:     s.propagator.Completed(ctx, saved),
	}, nil
}

// AddComment appends a comment / Ajoute un commentaire
func (s *InterventionService) AddComment(ctx context.Context, id, auteurID, texte string) (*domain.Intervention, error) {
	if isBlank(texte) {
		return nil, domain.InvalidArgument("texte du commentaire requis")
	}
	i, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i.AddCommentaire(auteurID, texte, s.now())
	return s.repo.Save(ctx, i)
}

// Delete removes an intervention without cascade / Supprime une intervention sans cascade
func (s *InterventionService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("intervention", id)
	}
	return s.repo.DeleteByID(ctx, id)
}

// GetByID retrieves one intervention / Récupère une intervention
func (s *InterventionService) GetByID(ctx context.Context, id string) (*domain.Intervention, error) {
	return s.repo.Get(ctx, id)
}

// GetAll lists every intervention / Liste toutes les interventions
func (s *InterventionService) GetAll(ctx context.Context) ([]*domain.Intervention, error) {
	return s.repo.GetAll(ctx)
}

// FindByStatut filters by status, unknown tokens match nothing / Filtre par statut, un statut inconnu ne renvoie rien
func (s *InterventionService) FindByStatut(ctx context.Context, token string) ([]*domain.Intervention, error) {
	statut, err := domain.ParseStatut(token)
	if err != nil {
		return []*domain.Intervention{}, nil
	}
	return s.repo.FindBy(ctx, "statut", string(statut))
}

// FindByTechnicien filters by assigned technician / Filtre par technicien affecté
func (s *InterventionService) FindByTechnicien(ctx context.Context, technicienID string) ([]*domain.Intervention, error) {
	return s.repo.FindBy(ctx, "technicienId", technicienID)
}

// GetActive lists interventions not yet completed / Liste les interventions non terminées
func (s *InterventionService) GetActive(ctx context.Context) ([]*domain.Intervention, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Intervention, 0, len(all))
	for _, i := range all {
		if i.IsActive() {
			out = append(out, i)
		}
	}
	return out, nil
}
