package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user management operations / Gère les opérations de gestion des utilisateurs
type UserService struct {
	repo ports.UserRepository
	conf *config.Config
	now  func() time.Time
}

// NewUserService creates user management service instance / Crée une instance de service de gestion utilisateur
func NewUserService(repo ports.UserRepository, conf *config.Config) *UserService {
	return &UserService{repo: repo, conf: conf, now: time.Now}
}

// emailTaken reports whether another user owns email
func (s *UserService) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != exceptID, nil
}

// Create validates, hashes the password and stores a user / Valide, hache le mot de passe et enregistre l'utilisateur
func (s *UserService) Create(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	var errs []error
	if isBlank(u.Nom) {
		errs = append(errs, domain.Validation("nom", "Le nom est obligatoire"))
	}
	if isBlank(u.Prenom) {
		errs = append(errs, domain.Validation("prenom", "Le prénom est obligatoire"))
	}
	if !isValidEmail(strings.TrimSpace(u.Email)) {
		errs = append(errs, domain.Validation("email", "Format d'email invalide"))
	}
	if !isValidPassword(password) {
		errs = append(errs, domain.Validation("motDePasse", "Le mot de passe doit contenir au moins 6 caractères"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	role := domain.RoleCitoyen
	if !isBlank(string(u.Role)) {
		var err error
		if role, err = domain.ParseRole(string(u.Role)); err != nil {
			return nil, err
		}
	}

	email := normalizeEmail(u.Email)
	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Validation("email", "Cet email est déjà utilisé")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.conf.Security.BcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "err", err)
		return nil, domain.Internal("hash password", err)
	}

	now := s.now()
	u.ID = ""
	u.Email = email
	u.Role = role
	u.MotDePasse = string(hashed)
	u.Disponibilite = true
	u.DateCreation = now
	u.DateModification = now

	created, err := s.repo.Save(ctx, u)
	if err != nil {
		slog.Error("failed to create user", "err", err)
		return nil, err
	}
	return created, nil
}

// Update overwrites profile fields / Met à jour les champs du profil
func (s *UserService) Update(ctx context.Context, id string, patch *domain.User) (*domain.User, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isBlank(patch.Email) {
		email := normalizeEmail(patch.Email)
		if !isValidEmail(email) {
			return nil, domain.Validation("email", "Format d'email invalide")
		}
		taken, err := s.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Validation("email", "Cet email est déjà utilisé")
		}
		existing.Email = email
	}
	if !isBlank(patch.Nom) {
		existing.Nom = patch.Nom
	}
	if !isBlank(patch.Prenom) {
		existing.Prenom = patch.Prenom
	}
	existing.NumeroTelephone = patch.NumeroTelephone
	existing.Position = patch.Position
	existing.Disponibilite = patch.Disponibilite
	existing.DateModification = s.now()

	return s.repo.Save(ctx, existing)
}

// UpdateUserRole changes a user's role / Change le rôle d'un utilisateur
func (s *UserService) UpdateUserRole(ctx context.Context, id string, newRole domain.UserRole) (*domain.User, error) {
	if !newRole.IsValid() {
		return nil, domain.InvalidArgument("rôle invalide: %q", newRole)
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = newRole
	u.DateModification = s.now()
	return s.repo.Save(ctx, u)
}

// Delete permanently removes a user / Supprime définitivement un utilisateur
func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("utilisateur", id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		slog.Error("failed to delete user", "user_id", id, "err", err)
		return err
	}
	return nil
}

// GetByID retrieves a user by their ID / Récupère un utilisateur par son ID
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// GetAll lists every user / Liste tous les utilisateurs
func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.GetAll(ctx)
}

// TechniciensDisponibles lists available technicians / Liste les techniciens disponibles
func (s *UserService) TechniciensDisponibles(ctx context.Context) ([]*domain.User, error) {
	techs, err := s.repo.FindBy(ctx, "role", string(domain.RoleTechnicien))
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(techs))
	for _, u := range techs {
		if u.IsTechnicienDisponible() {
			out = append(out, u)
		}
	}
	return out, nil
}
