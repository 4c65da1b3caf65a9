package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/mocks"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/memory"
	"github.com/ahlemhorchani/smart-interventions/internal/service/auth"
	"github.com/ahlemhorchani/smart-interventions/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-at-least-32-characters"

// testAPI is an in-memory server with one account per role
type testAPI struct {
	t         *testing.T
	container *app.Container
	handler   http.Handler
	events    *mocks.MockEventPublisher
	files     *storage.Memory

	admin      *domain.User
	technicien *domain.User
	citoyen    *domain.User
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	conf := &config.Config{
		Environment: "test",
		Auth:        config.AuthConfig{JWTSecret: testSecret, TokenDuration: time.Hour},
		Security:    config.SecurityConfig{BcryptCost: 4},
		Cors:        config.CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	events := mocks.NewMockEventPublisher()
	files := storage.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	container, err := app.NewContainer(ctx, conf,
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithRegistry(prometheus.NewRegistry()),
		app.WithDocumentStore(memory.NewDocumentStore()),
		app.WithEventPublisher(events),
		app.WithFileStorage(files),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		container.Close()
	})

	api := &testAPI{
		t:         t,
		container: container,
		handler:   NewMux(ctx, NewHandler(container), container),
		events:    events,
		files:     files,
	}
	api.admin = api.createUser("admin@ville.tn", domain.RoleAdmin)
	api.technicien = api.createUser("tech@ville.tn", domain.RoleTechnicien)
	api.citoyen = api.createUser("citoyen@ville.tn", domain.RoleCitoyen)
	return api
}

func (a *testAPI) createUser(email string, role domain.UserRole) *domain.User {
	a.t.Helper()
	u, err := a.container.UserSvc.Create(context.Background(), &domain.User{
		Nom:           "Test",
		Prenom:        string(role),
		Email:         email,
		Role:          role,
		Disponibilite: true,
	}, "secret123")
	require.NoError(a.t, err)
	return u
}

func (a *testAPI) tokenFor(u *domain.User) string {
	a.t.Helper()
	tok, err := auth.GenerateToken(u.ID, u.Email, string(u.Role), testSecret, time.Hour)
	require.NoError(a.t, err)
	return tok.AccessToken
}

// do sends body as JSON, or as-is when it is already a reader / Envoie body en JSON
func (a *testAPI) do(method, target string, body any, as *domain.User) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+a.tokenFor(as))
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}
