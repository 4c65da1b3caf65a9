package web

import (
	"context"
	"net/http"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

// HealthResponse is the body of /health and /readiness
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck answers as long as the process serves HTTP / Répond tant que le processus sert HTTP
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

// ReadinessCheck probes the database, the event bus and file storage / Sonde la base, le bus et le stockage
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			checks[name] = "error"
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	if h.container.DB != nil {
		record("database", h.container.DB.PingContext(ctx))
	}
	if p, ok := h.container.Events.(ports.Pinger); ok {
		record("events", p.Ping(ctx))
	}
	if p, ok := h.container.Files.(ports.Pinger); ok {
		record("storage", p.Ping(ctx))
	}

	resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC(), Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "error"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
