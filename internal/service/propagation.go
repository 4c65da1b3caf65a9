package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SideEffectRecorder counts failed secondary writes / Compte les écritures secondaires échouées
type SideEffectRecorder interface {
	RecordSideEffectFailure(target string)
}

// Propagator copies intervention snapshots into related collections, best effort.
// Secondary writes run after the primary write, each on its own; a failure becomes a warning.
type Propagator struct {
	equipements   *EquipementService
	services      *ServiceMunicipalService
	notifications *NotificationService
	users         ports.UserRepository
	events        ports.EventPublisher
	metrics       SideEffectRecorder
	now           func() time.Time
}

// NewPropagator creates the side-effect propagator / Crée le propagateur d'effets de bord
func NewPropagator(
	equipements *EquipementService,
	services *ServiceMunicipalService,
	notifications *NotificationService,
	users ports.UserRepository,
	events ports.EventPublisher,
	metrics SideEffectRecorder,
) *Propagator {
	return &Propagator{
		equipements:   equipements,
		services:      services,
		notifications: notifications,
		users:         users,
		events:        events,
		metrics:       metrics,
		now:           time.Now,
	}
}

// sideEffects collects warnings of one propagation run
type sideEffects struct {
	p        *Propagator
	ctx      context.Context
	id       string
	warnings []domain.SideEffectWarning
}

func (p *Propagator) begin(ctx context.Context, i *domain.Intervention) *sideEffects {
	return &sideEffects{p: p, ctx: ctx, id: i.ID}
}

func (se *sideEffects) run(target string, fn func(ctx context.Context) error) {
	if err := fn(se.ctx); err != nil {
		slog.Warn("side effect failed",
			"target", target,
			"intervention_id", se.id,
			"err", err,
		)
		se.p.metrics.RecordSideEffectFailure(target)
		trace.SpanFromContext(se.ctx).AddEvent("side_effect_failed",
			trace.WithAttributes(attribute.String("target", target)))
		se.warnings = append(se.warnings, domain.SideEffectWarning{Target: target, Message: err.Error()})
	}
}

func (se *sideEffects) result() []domain.SideEffectWarning {
	if len(se.warnings) > 0 {
		trace.SpanFromContext(se.ctx).SetStatus(codes.Error, "partial propagation")
	}
	return se.warnings
}

func (se *sideEffects) feed(i *domain.Intervention) {
	if i.ServiceMunicipalID == "" {
		return
	}
	se.run(domain.TargetService, func(ctx context.Context) error {
		_, err := se.p.services.AddRecentIntervention(ctx, i.ServiceMunicipalID, i.Titre, string(i.Statut), string(i.Urgence))
		return err
	})
}

func (se *sideEffects) equipement(i *domain.Intervention, technicien string) {
	if i.EquipementID == "" {
		return
	}
	se.run(domain.TargetEquipement, func(ctx context.Context) error {
		_, err := se.p.equipements.AddInterventionSummary(ctx, i.EquipementID, i.ID, i.Titre, technicien)
		return err
	})
}

func (se *sideEffects) publish(evt domain.LifecycleEvent) {
	se.run(domain.TargetEventBus, func(ctx context.Context) error {
		return se.p.events.Publish(ctx, evt)
	})
}

func (p *Propagator) event(t domain.EventType, i *domain.Intervention) domain.LifecycleEvent {
	return domain.LifecycleEvent{
		Type:               t,
		InterventionID:     i.ID,
		Statut:             i.Statut,
		TechnicienID:       i.TechnicienID,
		EquipementID:       i.EquipementID,
		ServiceMunicipalID: i.ServiceMunicipalID,
		OccurredAt:         p.now(),
	}
}

// Created propagates a new intervention / Propage une nouvelle intervention
func (p *Propagator) Created(ctx context.Context, i *domain.Intervention) []domain.SideEffectWarning {
	ctx, span := tracer.Start(ctx, "Propagator.Created")
	defer span.End()

	se := p.begin(ctx, i)
	se.feed(i)
	se.publish(p.event(domain.EventInterventionCreated, i))
	return se.result()
}

// StatusChanged propagates a status transition / Propage un changement de statut
func (p *Propagator) StatusChanged(ctx context.Context, i *domain.Intervention, previous domain.Statut) []domain.SideEffectWarning {
	ctx, span := tracer.Start(ctx, "Propagator.StatusChanged")
	defer span.End()

	se := p.begin(ctx, i)
	se.feed(i)
	evt := p.event(domain.EventInterventionStatus, i)
	evt.PreviousStatut = previous
	se.publish(evt)
	return se.result()
}

// Assigned propagates a technician assignment / Propage l'affectation d'un technicien
func (p *Propagator) Assigned(ctx context.Context, i *domain.Intervention, technicienNom string) []domain.SideEffectWarning {
	ctx, span := tracer.Start(ctx, "Propagator.Assigned")
	defer span.End()

	se := p.begin(ctx, i)
	se.equipement(i, technicienNom)
	if i.TechnicienID != "" {
		se.run(domain.TargetNotification, func(ctx context.Context) error {
			_, err := p.notifications.Send(ctx, &domain.Notification{
				Message:          fmt.Sprintf("Vous avez été assigné à l'intervention : %s", i.Titre),
				TypeNotification: domain.NotificationAssignation,
				TechnicienID:     i.TechnicienID,
				CitoyenID:        i.CitoyenID,
				InterventionID:   i.ID,
			})
			return err
		})
	}
	se.publish(p.event(domain.EventInterventionAssigned, i))
	return se.result()
}

// Completed propagates a completion / Propage la clôture d'une intervention
func (p *Propagator) Completed(ctx context.Context, i *domain.Intervention) []domain.SideEffectWarning {
	ctx, span := tracer.Start(ctx, "Propagator.Completed")
	defer span.End()

	se := p.begin(ctx, i)
	se.equipement(i, p.technicienName(ctx, i.TechnicienID))
	se.feed(i)
	se.publish(p.event(domain.EventInterventionDone, i))
	return se.result()
}

// technicienName resolves the display name, falling back to the id
func (p *Propagator) technicienName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	u, err := p.users.Get(ctx, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			slog.Warn("technician lookup failed", "technicien_id", id, "err", err)
		}
		return id
	}
	if name := u.NomComplet(); name != "" {
		return name
	}
	return id
}
