// Package events publishes intervention lifecycle events to Redis, MQTT or the log.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/metrics"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

// New builds the configured publisher / Construit le publisher configuré
func New(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (ports.EventPublisher, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return Nop{}, nil
	case "log":
		return NewLogPublisher(logger), nil
	case "redis":
		return NewRedisPublisher(ctx, cfg.Redis)
	case "mqtt":
		return NewMQTTPublisher(cfg.MQTT)
	}
	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}

func encode(evt domain.LifecycleEvent) ([]byte, error) {
	raw, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", evt.Type, err)
	}
	return raw, nil
}

// Nop drops every event / Ignore tous les événements
type Nop struct{}

func (Nop) Publish(context.Context, domain.LifecycleEvent) error { return nil }
func (Nop) Close() error                                         { return nil }

// LogPublisher writes events to slog / Écrit les événements dans slog
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evt domain.LifecycleEvent) error {
	p.logger.InfoContext(ctx, "lifecycle event",
		"type", string(evt.Type),
		"intervention_id", evt.InterventionID,
		"statut", string(evt.Statut),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Instrumented counts publications by type and outcome / Compte les publications par type et résultat
type Instrumented struct {
	ports.EventPublisher
	metrics *metrics.Metrics
}

// WithMetrics wraps next, a nil m returns next unchanged
func WithMetrics(next ports.EventPublisher, m *metrics.Metrics) ports.EventPublisher {
	if m == nil {
		return next
	}
	return &Instrumented{EventPublisher: next, metrics: m}
}

func (p *Instrumented) Publish(ctx context.Context, evt domain.LifecycleEvent) error {
	err := p.EventPublisher.Publish(ctx, evt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordEventPublished(string(evt.Type), status)
	return err
}

// Ping forwards readiness checks when the wrapped publisher supports them
func (p *Instrumented) Ping(ctx context.Context) error {
	if pinger, ok := p.EventPublisher.(ports.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}
