package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/google/uuid"
)

var _ ports.UserRepository = (*MockUserRepository)(nil)

// MockUserRepository is a mock implementation of ports.UserRepository for testing
type MockUserRepository struct {
	mu sync.Mutex

	// Mock data storage
	Users map[string]*domain.User
	order []string

	// Mock behavior flags
	GetError        error
	GetAllError     error
	GetByEmailError error
	SaveError       error
	DeleteError     error

	// Call tracking
	GetCalls        int
	GetByEmailCalls int
	SaveCalls       int
	DeleteCalls     int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*domain.User)}
}

// AddUser seeds a user, generating an id when empty
func (m *MockUserRepository) AddUser(u *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(u)
	return u
}

func (m *MockUserRepository) put(u *domain.User) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, ok := m.Users[u.ID]; !ok {
		m.order = append(m.order, u.ID)
	}
	cp := *u
	m.Users[u.ID] = &cp
}

func (m *MockUserRepository) Get(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.NotFound("utilisateur", id)
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetAll(context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	out := make([]*domain.User, 0, len(m.order))
	for _, id := range m.order {
		if u, ok := m.Users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockUserRepository) FindBy(ctx context.Context, field, value string) ([]*domain.User, error) {
	all, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0)
	for _, u := range all {
		var got string
		switch field {
		case "role":
			got = string(u.Role)
		case "email":
			got = u.Email
		case "nom":
			got = u.Nom
		default:
			return nil, domain.InvalidArgument("champ de filtre invalide: %q", field)
		}
		if got == value {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUserRepository) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveError != nil {
		return nil, m.SaveError
	}
	m.put(u)
	return u, nil
}

func (m *MockUserRepository) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Users[id]
	return ok, nil
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetByEmailCalls++
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, id := range m.order {
		if u, ok := m.Users[id]; ok && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("utilisateur", email)
}
