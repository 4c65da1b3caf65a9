package mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

var _ ports.FileStorage = (*MockFileStorage)(nil)

// ErrMockFileNotFound is returned by Open for unknown names
var ErrMockFileNotFound = errors.New("file not found")

// MockFileStorage keeps stored payloads in a map
type MockFileStorage struct {
	mu sync.Mutex

	// Mock data storage
	Stored map[string][]byte

	// Mock behavior flags
	StoreError  error
	OpenError   error
	DeleteError error

	// Call tracking
	StoreCalls  int
	DeleteCalls int
	LastPrefix  string
}

func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{Stored: make(map[string][]byte)}
}

func (m *MockFileStorage) Store(_ context.Context, prefix, originalName string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StoreCalls++
	m.LastPrefix = prefix
	if m.StoreError != nil {
		return "", m.StoreError
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%d%s", prefix, m.StoreCalls, strings.ToLower(filepath.Ext(originalName)))
	m.Stored[name] = data
	return name, nil
}

func (m *MockFileStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.OpenError != nil {
		return nil, m.OpenError
	}
	data, ok := m.Stored[name]
	if !ok {
		return nil, ErrMockFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockFileStorage) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Stored, name)
	return nil
}
