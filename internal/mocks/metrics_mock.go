package mocks

import "sync"

// MockMetrics is a mock implementation of metrics recorder for testing
type MockMetrics struct {
	mu sync.Mutex

	CreatedCalls       int
	CompletedCalls     int
	RegistrationCalls  int
	ResourceUnits      int
	Transitions        []string // "FROM->TO"
	SideEffectFailures map[string]int
	LoginAttempts      map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		SideEffectFailures: make(map[string]int),
		LoginAttempts:      make(map[string]int),
	}
}

func (m *MockMetrics) RecordInterventionCreated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedCalls++
}

func (m *MockMetrics) RecordStatusTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = append(m.Transitions, from+"->"+to)
}

func (m *MockMetrics) RecordInterventionCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompletedCalls++
}

func (m *MockMetrics) RecordResourceUsage(units int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResourceUnits += units
}

func (m *MockMetrics) RecordSideEffectFailure(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SideEffectFailures[target]++
}

func (m *MockMetrics) RecordLoginAttempt(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginAttempts[status]++
}

func (m *MockMetrics) RecordRegistration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegistrationCalls++
}

// SideEffectFailuresFor returns the failure count of one target
func (m *MockMetrics) SideEffectFailuresFor(target string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SideEffectFailures[target]
}
