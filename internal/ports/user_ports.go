package ports

import (
	"context"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
)

// UserRepository stores users / Stocke les utilisateurs
type UserRepository interface {
	Repository[domain.User]

	// GetByEmail retrieves user by email / Récupère l'utilisateur par email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
