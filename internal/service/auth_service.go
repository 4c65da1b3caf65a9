package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown email or wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthMetricsRecorder records auth metrics / Enregistre les métriques d'authentification
type AuthMetricsRecorder interface {
	RecordLoginAttempt(status string)
	RecordRegistration()
}

// AuthService handles authentication operations / Gère les opérations d'authentification
type AuthService struct {
	users   *UserService
	repo    ports.UserRepository
	conf    *config.Config
	metrics AuthMetricsRecorder
}

// NewAuthService creates authentication service instance / Crée une instance de service d'authentification
func NewAuthService(users *UserService, repo ports.UserRepository, conf *config.Config, metrics AuthMetricsRecorder) *AuthService {
	return &AuthService{users: users, repo: repo, conf: conf, metrics: metrics}
}

// Register creates an account / Crée un compte
func (s *AuthService) Register(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	created, err := s.users.Create(ctx, u, password)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRegistration()
	return created, nil
}

// Login authenticates user and signs a token / Authentifie l'utilisateur et signe un token
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.Token, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !domain.IsNotFound(err) {
			slog.Error("failed to load user for login", "err", err)
			return nil, nil, err
		}
		// Unknown emails still pay one bcrypt comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.metrics.RecordLoginAttempt("failure")
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.MotDePasse), []byte(password)); err != nil {
		s.metrics.RecordLoginAttempt("failure")
		return nil, nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, string(user.Role), s.conf.Auth.JWTSecret, s.conf.Auth.TokenDuration)
	if err != nil {
		slog.Error("failed to generate token", "user_id", user.ID, "err", err)
		return nil, nil, domain.Internal("generate token", err)
	}

	s.metrics.RecordLoginAttempt("success")
	return user, token, nil
}

// dummyHash is a bcrypt hash of a random string, never matched
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z9Sdg2L9P8J4hRZkZz8bC6Tu")
