package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

var _ ports.FileStorage = (*Memory)(nil)

// Memory keeps files in a map / Garde les fichiers dans une map
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte), now: time.Now}
}

func (m *Memory) Store(_ context.Context, prefix, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := ObjectName(prefix, originalName, m.now())
	if err := validName(name); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.files[name] = data
	m.mu.Unlock()
	return name, nil
}

func (m *Memory) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	data, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.files, name)
	m.mu.Unlock()
	return nil
}

// Names lists stored names, for tests / Liste les noms stockés
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	return out
}
