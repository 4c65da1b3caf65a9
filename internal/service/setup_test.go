package service

import (
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/mocks"
	"github.com/ahlemhorchani/smart-interventions/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

// testEnv wires every service over one mock document store
type testEnv struct {
	store   *mocks.MockDocumentStore
	events  *mocks.MockEventPublisher
	files   *mocks.MockFileStorage
	metrics *mocks.MockMetrics
	conf    *config.Config

	propagator    *Propagator
	interventions *InterventionService
	equipements   *EquipementService
	services      *ServiceMunicipalService
	notifications *NotificationService
	ressources    *RessourceService
	signalements  *SignalementService
	users         *UserService
	auth          *AuthService
	stats         *StatistiquesService
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key-with-at-least-32-characters",
			TokenDuration: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   mocks.NewMockDocumentStore(),
		events:  mocks.NewMockEventPublisher(),
		files:   mocks.NewMockFileStorage(),
		metrics: mocks.NewMockMetrics(),
		conf:    testConfig(),
	}
	adapter := repository.NewAdapterWithStore(env.store)
	userRepo := adapter.UserRepository()
	clock := func() time.Time { return testNow }

	env.equipements = NewEquipementService(adapter.Equipements())
	env.equipements.now = clock
	env.services = NewServiceMunicipalService(adapter.ServicesMunicipaux())
	env.services.now = clock
	env.notifications = NewNotificationService(adapter.Notifications())
	env.notifications.now = clock

	env.propagator = NewPropagator(env.equipements, env.services, env.notifications, userRepo, env.events, env.metrics)
	env.propagator.now = clock
	env.interventions = NewInterventionService(adapter.Interventions(), env.propagator, env.metrics)
	env.interventions.now = clock

	env.ressources = NewRessourceService(adapter.Ressources(), env.events, env.metrics)
	env.ressources.now = clock
	env.signalements = NewSignalementService(adapter.Signalements(), env.files, env.interventions)
	env.signalements.now = clock

	env.users = NewUserService(userRepo, env.conf)
	env.users.now = clock
	env.auth = NewAuthService(env.users, userRepo, env.conf, env.metrics)
	env.stats = NewStatistiquesService(adapter.Interventions(), userRepo, adapter.ServicesMunicipaux())

	return env
}
