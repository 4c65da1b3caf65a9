package repository

import (
	"context"
	"strings"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

var _ ports.UserRepository = (*userRepository)(nil)

// userRepository adds email lookup to the users collection / Ajoute la recherche par email
type userRepository struct {
	*Collection[domain.User, *domain.User]
}

// NewUserRepository creates user repository / Crée le repository utilisateur
func NewUserRepository(store ports.DocumentStore) ports.UserRepository {
	return &userRepository{
		Collection: NewCollection[domain.User](store, domain.CollectionUsers, "utilisateur"),
	}
}

// GetByEmail retrieves user by lower-cased email / Récupère l'utilisateur par email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := r.FindBy(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.NotFound("utilisateur", email)
	}
	return users[0], nil
}
