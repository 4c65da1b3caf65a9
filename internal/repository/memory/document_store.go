// Package memory keeps documents in process memory, for tests and dry runs.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
)

var _ ports.DocumentStore = (*DocumentStore)(nil)

type collection struct {
	order []string
	docs  map[string][]byte
}

// DocumentStore is an in-memory DocumentStore / Store de documents en mémoire
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewDocumentStore creates empty store / Crée un store vide
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]*collection)}
}

func (s *DocumentStore) Get(_ context.Context, name, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, db.ErrNoRecord
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, db.ErrNoRecord
	}
	return clone(doc), nil
}

func (s *DocumentStore) GetAll(_ context.Context, name string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	out := make([][]byte, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.docs[id]))
	}
	return out, nil
}

func (s *DocumentStore) FindBy(ctx context.Context, name, field, value string) ([][]byte, error) {
	if err := db.ValidateField(field); err != nil {
		return nil, err
	}
	all, err := s.GetAll(ctx, name)
	if err != nil {
		return nil, err
	}

	var out [][]byte
	for _, doc := range all {
		var fields map[string]any
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, err
		}
		if v, ok := fields[field].(string); ok && v == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *DocumentStore) Save(_ context.Context, name, id string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = clone(doc)
	return nil
}

func (s *DocumentStore) DeleteByID(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	if _, exists := c.docs[id]; !exists {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *DocumentStore) ExistsByID(_ context.Context, name, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return false, nil
	}
	_, exists := c.docs[id]
	return exists, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
