package ports

import (
	"context"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
)

// EventPublisher broadcasts lifecycle events / Diffuse les événements du cycle de vie
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.LifecycleEvent) error
	Close() error
}

// Pinger is implemented by collaborators exposing a readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}
