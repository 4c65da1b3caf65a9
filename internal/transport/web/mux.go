package web

import (
	"context"
	"net/http"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 30 * time.Second

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
func NewMux(ctx context.Context, h *Handler, container *app.Container) http.Handler {
	mux := http.NewServeMux()
	mw := NewMiddleware(ctx, container.Config, container.Metrics)

	// Probes stay outside auth and per-route limits
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)

	metricsHandler := promhttp.HandlerFor(container.Gatherer, promhttp.HandlerOpts{})
	mux.Handle("GET /metrics", chain(metricsHandler.ServeHTTP, mw.Auth, mw.RequireRole(domain.RoleAdmin)))

	// Authenticated routes share the same prefix of middlewares
	authed := func(f http.HandlerFunc, extra ...func(http.Handler) http.Handler) http.Handler {
		return chain(f, append([]func(http.Handler) http.Handler{mw.Auth, mw.RateLimitByUser}, extra...)...)
	}
	write := mw.RequirePermission(domain.PermissionInterventionsWrite)
	patrimoine := mw.RequirePermission(domain.PermissionPatrimoineWrite)
	usersManage := mw.RequirePermission(domain.PermissionUsersManage)
	stats := mw.RequirePermission(domain.PermissionStatsRead)

	// Auth
	mux.Handle("POST /api/auth/login", chain(h.Login, mw.RateLimitStrict))
	mux.Handle("POST /api/auth/register", chain(h.Register, mw.RateLimitStrict))
	mux.Handle("GET /api/auth/me", authed(h.Me))
	mux.Handle("POST /api/auth/logout", authed(h.Logout))

	// Interventions
	mux.Handle("POST /api/interventions", authed(h.CreateIntervention))
	mux.Handle("GET /api/interventions", authed(h.ListInterventions))
	mux.Handle("GET /api/interventions/{id}", authed(h.GetIntervention))
	mux.Handle("PUT /api/interventions/{id}", authed(h.UpdateIntervention, write))
	mux.Handle("DELETE /api/interventions/{id}", authed(h.DeleteIntervention, mw.RequirePermission(domain.PermissionInterventionsAdmin)))
	mux.Handle("GET /api/interventions/statut/{statut}", authed(h.InterventionsByStatut))
	mux.Handle("PATCH /api/interventions/{id}/statut", authed(h.ChangeInterventionStatus, write))
	mux.Handle("GET /api/interventions/technicien/me", authed(h.MyInterventions, mw.RequireRole(domain.RoleTechnicien)))
	mux.Handle("GET /api/interventions/technicien/{id}", authed(h.InterventionsByTechnicien))
	mux.Handle("GET /api/interventions/actives", authed(h.ActiveInterventions))
	mux.Handle("POST /api/interventions/{id}/assign", authed(h.AssignTechnician, write))
	mux.Handle("POST /api/interventions/{id}/complete", authed(h.CompleteIntervention, write))
	mux.Handle("POST /api/interventions/{id}/commentaires", authed(h.AddInterventionComment, write))
	mux.Handle("GET /api/interventions/export", authed(h.ExportInterventions, stats))

	// Equipements
	mux.Handle("GET /api/equipements/all", authed(h.ListEquipements))
	mux.Handle("GET /api/equipements/{id}", authed(h.GetEquipement))
	mux.Handle("POST /api/equipements/create", authed(h.CreateEquipement, patrimoine))
	mux.Handle("PUT /api/equipements/update/{id}", authed(h.UpdateEquipement, patrimoine))
	mux.Handle("DELETE /api/equipements/delete/{id}", authed(h.DeleteEquipement, patrimoine))
	mux.Handle("GET /api/equipements/etat/{etat}", authed(h.EquipementsByEtat))
	mux.Handle("POST /api/equipements/{equipementId}/add-intervention", authed(h.AddEquipementIntervention, write))

	// Ressources
	mux.Handle("POST /api/ressources/create", authed(h.CreateRessource, patrimoine))
	mux.Handle("PUT /api/ressources/update/{id}", authed(h.UpdateRessource, patrimoine))
	mux.Handle("DELETE /api/ressources/delete/{id}", authed(h.DeleteRessource, patrimoine))
	mux.Handle("GET /api/ressources/{id}", authed(h.GetRessource))
	mux.Handle("GET /api/ressources/all", authed(h.ListRessources))
	mux.Handle("POST /api/ressources/utilisation/{id}", authed(h.RecordRessourceUsage, write))
	mux.Handle("GET /api/ressources/alertes", authed(h.RessourceAlertes))

	// Services municipaux
	mux.Handle("POST /api/services-municipaux/create", authed(h.CreateServiceMunicipal, patrimoine))
	mux.Handle("GET /api/services-municipaux/all", authed(h.ListServicesMunicipaux))
	mux.Handle("GET /api/services-municipaux/{id}", authed(h.GetServiceMunicipal))
	mux.Handle("PUT /api/services-municipaux/update/{id}", authed(h.UpdateServiceMunicipal, patrimoine))
	mux.Handle("DELETE /api/services-municipaux/delete/{id}", authed(h.DeleteServiceMunicipal, patrimoine))
	mux.Handle("POST /api/services-municipaux/{serviceId}/interventions/add", authed(h.AddServiceIntervention, write))
	mux.Handle("GET /api/services-municipaux/search", authed(h.SearchServicesMunicipaux))

	// Statistiques
	mux.Handle("GET /api/statistiques/generales", authed(h.StatistiquesGenerales, stats))
	mux.Handle("GET /api/statistiques/export", authed(h.ExportStatistiques, stats))

	// Signalements are public, conversion opens an intervention and needs a token
	public := func(f http.HandlerFunc) http.Handler { return chain(f, mw.RateLimitByUser) }
	mux.Handle("POST /api/signalements/create", public(h.CreateSignalement))
	mux.Handle("GET /api/signalements/all", public(h.ListSignalements))
	mux.Handle("GET /api/signalements/{id}", public(h.GetSignalement))
	mux.Handle("PUT /api/signalements/{id}", public(h.UpdateSignalement))
	mux.Handle("PUT /api/signalements/{id}/statut", public(h.UpdateSignalementStatut))
	mux.Handle("POST /api/signalements/{id}/photo", public(h.UploadSignalementPhoto))
	mux.Handle("GET /api/signalements/urgents", public(h.UrgentSignalements))
	mux.Handle("GET /api/signalements/citoyen/{citoyenId}", public(h.SignalementsByCitoyen))
	mux.Handle("GET /api/signalements/type/{type}", public(h.SignalementsByType))
	mux.Handle("GET /api/signalements/statut/{statut}", public(h.SignalementsByStatut))
	mux.Handle("PUT /api/signalements/{id}/intervention", public(h.LierSignalementIntervention))
	mux.Handle("POST /api/signalements/{id}/convertir", authed(h.ConvertirSignalement, write))

	// Users
	mux.Handle("POST /api/users", authed(h.CreateUser, usersManage))
	mux.Handle("GET /api/users", authed(h.ListUsers, usersManage))
	mux.Handle("GET /api/users/{id}", authed(h.GetUser))
	mux.Handle("PUT /api/users/{id}", authed(h.UpdateUser))
	mux.Handle("DELETE /api/users/{id}", authed(h.DeleteUser, usersManage))
	mux.Handle("PATCH /api/users/{id}/role", authed(h.UpdateUserRole, usersManage))
	mux.Handle("GET /api/users/techniciens/disponibles", authed(h.TechniciensDisponibles))

	// Notifications
	mux.Handle("GET /api/notifications/user/{userId}", authed(h.UserNotifications))
	mux.Handle("GET /api/notifications/all", authed(h.ListNotifications, usersManage))
	mux.Handle("PUT /api/notifications/{notifId}/read", authed(h.MarkNotificationRead))
	mux.Handle("POST /api/notifications", authed(h.SendNotification, write))

	// Global middlewares, applied in reverse order / Middlewares globaux appliqués en ordre inverse
	var handler http.Handler = mux
	handler = mw.MetricsMiddleware(handler)
	handler = mw.RateLimit(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Cors(handler)
	handler = Timeout(requestTimeout)(handler)
	handler = Logging(handler)
	handler = RequestID(handler)

	return handler
}

// chain wraps f so the first middleware runs first / Enveloppe f, le premier middleware s'exécute en premier
func chain(f http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = f
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
