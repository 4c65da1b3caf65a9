package mocks

import (
	"context"
	"sync"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/memory"
)

var _ ports.DocumentStore = (*MockDocumentStore)(nil)

// MockDocumentStore is an in-memory store with per-collection error injection
type MockDocumentStore struct {
	*memory.DocumentStore

	mu sync.Mutex

	// Mock behavior, keyed by collection name
	GetErrors    map[string]error
	GetAllErrors map[string]error
	FindByErrors map[string]error
	SaveErrors   map[string]error
	DeleteErrors map[string]error

	// Call tracking, keyed by collection name
	SaveCalls   map[string]int
	GetCalls    map[string]int
	DeleteCalls map[string]int
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		DocumentStore: memory.NewDocumentStore(),
		GetErrors:     make(map[string]error),
		GetAllErrors:  make(map[string]error),
		FindByErrors:  make(map[string]error),
		SaveErrors:    make(map[string]error),
		DeleteErrors:  make(map[string]error),
		SaveCalls:     make(map[string]int),
		GetCalls:      make(map[string]int),
		DeleteCalls:   make(map[string]int),
	}
}

// FailSave makes every Save on collection return err
func (m *MockDocumentStore) FailSave(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErrors[collection] = err
}

// FailGet makes every Get on collection return err
func (m *MockDocumentStore) FailGet(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetErrors[collection] = err
}

// Saves returns how many Save calls hit collection
func (m *MockDocumentStore) Saves(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls[collection]
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	m.mu.Lock()
	m.GetCalls[collection]++
	err := m.GetErrors[collection]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.DocumentStore.Get(ctx, collection, id)
}

func (m *MockDocumentStore) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	m.mu.Lock()
	err := m.GetAllErrors[collection]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.DocumentStore.GetAll(ctx, collection)
}

func (m *MockDocumentStore) FindBy(ctx context.Context, collection, field, value string) ([][]byte, error) {
	m.mu.Lock()
	err := m.FindByErrors[collection]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.DocumentStore.FindBy(ctx, collection, field, value)
}

func (m *MockDocumentStore) Save(ctx context.Context, collection, id string, doc []byte) error {
	m.mu.Lock()
	m.SaveCalls[collection]++
	err := m.SaveErrors[collection]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.DocumentStore.Save(ctx, collection, id, doc)
}

func (m *MockDocumentStore) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	m.DeleteCalls[collection]++
	err := m.DeleteErrors[collection]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.DocumentStore.DeleteByID(ctx, collection, id)
}
