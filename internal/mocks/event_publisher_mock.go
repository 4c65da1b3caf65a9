package mocks

import (
	"context"
	"sync"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

var (
	_ ports.EventPublisher = (*MockEventPublisher)(nil)
	_ ports.Pinger         = (*MockEventPublisher)(nil)
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu sync.Mutex

	Events []domain.LifecycleEvent

	// Mock behavior flags
	PublishError error
	PingError    error

	// Call tracking
	PublishCalls int
	CloseCalls   int
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(_ context.Context, evt domain.LifecycleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCalls++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Events = append(m.Events, evt)
	return nil
}

func (m *MockEventPublisher) Ping(context.Context) error {
	return m.PingError
}

func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// Types returns the published event types in order
func (m *MockEventPublisher) Types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.EventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}
