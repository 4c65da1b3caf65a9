package service

import (
	"context"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"golang.org/x/sync/errgroup"
)

// StatistiquesService computes dashboard figures on demand / Calcule les indicateurs à la demande
type StatistiquesService struct {
	interventions ports.Repository[domain.Intervention]
	users         ports.Repository[domain.User]
	services      ports.Repository[domain.ServiceMunicipal]
}

// NewStatistiquesService creates statistics aggregator / Crée l'agrégateur de statistiques
func NewStatistiquesService(
	interventions ports.Repository[domain.Intervention],
	users ports.Repository[domain.User],
	services ports.Repository[domain.ServiceMunicipal],
) *StatistiquesService {
	return &StatistiquesService{interventions: interventions, users: users, services: services}
}

// CalculerStatistiquesGenerales loads the three collections concurrently then aggregates
func (s *StatistiquesService) CalculerStatistiquesGenerales(ctx context.Context) (*domain.Statistiques, error) {
	ctx, span := tracer.Start(ctx, "StatistiquesService.CalculerStatistiquesGenerales")
	defer span.End()

	var (
		interventions []*domain.Intervention
		users         []*domain.User
		services      []*domain.ServiceMunicipal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		interventions, err = s.interventions.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		services, err = s.services.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return Aggregate(interventions, users, services), nil
}

// Aggregate computes statistics over loaded collections / Calcule les statistiques sur des collections chargées
func Aggregate(interventions []*domain.Intervention, users []*domain.User, services []*domain.ServiceMunicipal) *domain.Statistiques {
	stats := &domain.Statistiques{
		NbInterventionsParService: make(map[string]int),
		NbInterventionsParZone:    make(map[string]int),
		PerformanceTechniciens:    make(map[string]float64),
		TopZonesProblemes:         []string{},
	}

	serviceNames := make(map[string]string, len(services))
	for _, svc := range services {
		serviceNames[svc.ID] = svc.Nom
	}

	var (
		terminees    int
		totalHours   float64
		withDuration int
	)
	closedBy := make(map[string]int)

	for _, i := range interventions {
		if i.Statut == domain.StatutTerminee {
			terminees++
			if i.TechnicienID != "" {
				closedBy[i.TechnicienID]++
			}
		}
		if d, ok := i.Duration(); ok {
			totalHours += d.Hours()
			withDuration++
		}

		name, ok := serviceNames[i.ServiceMunicipalID]
		if i.ServiceMunicipalID == "" || !ok {
			name = domain.ServiceInconnu
		}
		stats.NbInterventionsParService[name]++
	}

	if len(interventions) > 0 {
		stats.TauxResolution = float64(terminees) / float64(len(interventions))
	}
	if withDuration > 0 {
		stats.TempsMoyenIntervention = totalHours / float64(withDuration)
	}

	// Keyed by nom: two users sharing a name share one entry.
	for _, u := range users {
		stats.PerformanceTechniciens[u.Nom] += float64(closedBy[u.ID])
	}

	stats.TauxSatisfactionCitoyens = stats.TauxResolution
	return stats
}
