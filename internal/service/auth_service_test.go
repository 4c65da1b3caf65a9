package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/mocks"
	"github.com/ahlemhorchani/smart-interventions/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *mocks.MockUserRepository, *mocks.MockMetrics) {
	t.Helper()
	repo := mocks.NewMockUserRepository()
	metrics := mocks.NewMockMetrics()
	conf := testConfig()
	return NewAuthService(NewUserService(repo, conf), repo, conf, metrics), repo, metrics
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, metrics := newAuthService(t)

	u, err := svc.Register(ctx, &domain.User{Nom: "Doe", Prenom: "Jane", Email: "Jane@Ville.tn", Role: "technicien"}, "secret1")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.RegistrationCalls)

	got, token, err := svc.Login(ctx, "jane@ville.tn", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := auth.ValidateJWT(token.AccessToken, testConfig().Auth.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "jane@ville.tn", claims.Email)
	assert.Equal(t, string(domain.RoleTechnicien), claims.Role)
	assert.Equal(t, 1, metrics.LoginAttempts["success"])
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, metrics := newAuthService(t)
	_, err := svc.Register(ctx, &domain.User{Nom: "Doe", Prenom: "Jane", Email: "jane@ville.tn"}, "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"Wrong password", "jane@ville.tn", "secret2"},
		{"Unknown email", "nobody@ville.tn", "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, token)
		})
	}
	assert.Equal(t, 2, metrics.LoginAttempts["failure"])
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	repo.GetByEmailError = domain.Internal("find utilisateur", errors.New("timeout"))

	_, _, err := svc.Login(context.Background(), "jane@ville.tn", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAuthService_Register_DuplicateNotCounted(t *testing.T) {
	ctx := context.Background()
	svc, _, metrics := newAuthService(t)
	u := domain.User{Nom: "Doe", Prenom: "Jane", Email: "jane@ville.tn"}

	first := u
	_, err := svc.Register(ctx, &first, "secret1")
	require.NoError(t, err)
	second := u
	_, err = svc.Register(ctx, &second, "secret1")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, 1, metrics.RegistrationCalls)
}
