package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors / Contient tous les collecteurs de métriques Prometheus
type Metrics struct {
	// Authentication metrics
	LoginAttempts     *prometheus.CounterVec // Total login attempts by status (success/failure)
	RegistrationTotal prometheus.Counter     // Total registrations

	// Lifecycle metrics
	InterventionsCreated  *prometheus.CounterVec // Created interventions by urgency
	StatusTransitions     *prometheus.CounterVec // Status changes by from/to
	InterventionsComplete prometheus.Counter     // Completed interventions
	ResourceUsageUnits    prometheus.Counter     // Units consumed across all resources
	SideEffectFailures    *prometheus.CounterVec // Best-effort secondary writes that failed, by target
	EventsPublished       *prometheus.CounterVec // Event bus publications by type and status

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // Total HTTP requests by method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // HTTP request latency in seconds
	ActiveConnections   prometheus.Gauge         // Current number of active HTTP connections

	// Security metrics
	RateLimitHits     *prometheus.CounterVec // Rate limit violations by endpoint
	InvalidTokens     prometheus.Counter     // Invalid/expired JWT token attempts
	PermissionDenials *prometheus.CounterVec // Role or permission check failures

	// System metrics
	DatabaseConnections prometheus.Gauge     // Current database connection pool size
	BackgroundTasks     *prometheus.GaugeVec // Status of background tasks (running/stopped)
}

// NewMetrics initializes Metrics instance / Initialise une instance Metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_attempts_total",
				Help: "Total number of login attempts by status (success, failure)",
			},
			[]string{"status"},
		),

		RegistrationTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_registrations_total",
				Help: "Total number of user registrations",
			},
		),

		InterventionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interventions_created_total",
				Help: "Total number of interventions created by urgency",
			},
			[]string{"urgence"},
		),

		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intervention_status_transitions_total",
				Help: "Total number of intervention status transitions",
			},
			[]string{"from", "to"},
		),

		InterventionsComplete: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "interventions_completed_total",
				Help: "Total number of completed interventions",
			},
		),

		ResourceUsageUnits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "resource_usage_units_total",
				Help: "Total units of material resources consumed",
			},
		),

		SideEffectFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "side_effect_failures_total",
				Help: "Total number of failed best-effort propagations by target",
			},
			[]string{"target"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Total number of lifecycle events published by type and status",
			},
			[]string{"type", "status"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				// Buckets optimized for API response times: 10ms to 10s
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Current number of active HTTP connections",
			},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_rate_limit_hits_total",
				Help: "Total number of rate limit violations by endpoint",
			},
			[]string{"endpoint"},
		),

		InvalidTokens: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "security_invalid_tokens_total",
				Help: "Total number of invalid or expired JWT token attempts",
			},
		),

		PermissionDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_permission_denials_total",
				Help: "Total number of role or permission check failures",
			},
			[]string{"permission"},
		),

		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "database_connections_active",
				Help: "Current number of active database connections",
			},
		),

		BackgroundTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "background_tasks_status",
				Help: "Status of background tasks (1=running, 0=stopped)",
			},
			[]string{"task_name"},
		),
	}

	return m
}

// RecordLoginAttempt records a login attempt with the given status ("success" or "failure").
func (m *Metrics) RecordLoginAttempt(status string) {
	m.LoginAttempts.WithLabelValues(status).Inc()
}

// RecordRegistration increments the registration counter.
func (m *Metrics) RecordRegistration() {
	m.RegistrationTotal.Inc()
}

// RecordInterventionCreated counts a new intervention / Compte une nouvelle intervention
func (m *Metrics) RecordInterventionCreated(urgence string) {
	m.InterventionsCreated.WithLabelValues(urgence).Inc()
}

// RecordStatusTransition counts a status change / Compte un changement de statut
func (m *Metrics) RecordStatusTransition(from, to string) {
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordInterventionCompleted() {
	m.InterventionsComplete.Inc()
}

// RecordResourceUsage adds consumed units / Ajoute les unités consommées
func (m *Metrics) RecordResourceUsage(units int) {
	if units > 0 {
		m.ResourceUsageUnits.Add(float64(units))
	}
}

// RecordSideEffectFailure counts a failed secondary write / Compte une écriture secondaire échouée
func (m *Metrics) RecordSideEffectFailure(target string) {
	m.SideEffectFailures.WithLabelValues(target).Inc()
}

// RecordEventPublished counts a publication, status is "ok" or "error".
func (m *Metrics) RecordEventPublished(eventType, status string) {
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}

// RecordHTTPRequest records an HTTP request with method, path, and status code.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(statusCode)).Inc()
}

// RecordHTTPDuration records the duration of an HTTP request.
func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

// RecordRateLimitHit records a rate limit violation for a specific endpoint.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordInvalidToken increments the invalid token counter.
func (m *Metrics) RecordInvalidToken() {
	m.InvalidTokens.Inc()
}

// RecordPermissionDenial increments permission denial counter / Incrémente le compteur de refus de permission
func (m *Metrics) RecordPermissionDenial(permission string) {
	m.PermissionDenials.WithLabelValues(permission).Inc()
}

// UpdateDatabaseConnections updates the database connections gauge.
func (m *Metrics) UpdateDatabaseConnections(count int) {
	m.DatabaseConnections.Set(float64(count))
}

// SetBackgroundTaskStatus sets the status of a background task (1 running, 0 stopped).
func (m *Metrics) SetBackgroundTaskStatus(taskName string, running bool) {
	status := 0.0
	if running {
		status = 1.0
	}
	m.BackgroundTasks.WithLabelValues(taskName).Set(status)
}

// statusCodeToString keeps frequent codes exact and groups the rest by class / Garde les codes fréquents, regroupe le reste
func statusCodeToString(code int) string {
	switch code {
	case 200, 201, 204, 400, 401, 403, 404, 429, 500, 503:
		return strconv.Itoa(code)
	}
	if code >= 200 && code < 600 {
		return strconv.Itoa(code/100) + "xx"
	}
	return "unknown"
}
