package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/mindflow-api/internal/api"
	apimw "github.com/phrazzld/mindflow-api/internal/api/middleware"
	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/extract"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/mocks"
	"github.com/phrazzld/mindflow-api/internal/platform/migrations"
	"github.com/phrazzld/mindflow-api/internal/platform/sqlite"
	"github.com/phrazzld/mindflow-api/internal/service"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type testEnv struct {
	server    *httptest.Server
	primary   *mocks.MockProvider
	secondary *mocks.MockProvider
	health    *generation.ProviderHealth
	jwt       auth.JWTService
}

type envOptions struct {
	primaryText     string
	primaryErr      error
	secondaryText   string
	secondaryErr    error
	maxUploadBytes  int64
	extractTimeout  time.Duration
	primaryInactive bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db.DB, migrations.DialectSQLite, nil))

	users := sqlite.NewUserStore(db.DB, nil)
	sessionStore := sqlite.NewStudySessionStore(db.DB, nil)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 120,
	})
	require.NoError(t, err)

	authenticator, err := auth.NewAuthenticator(db.DB, users, jwtService, auth.NewBcryptHasher(4), nil)
	require.NoError(t, err)

	sessions, err := service.NewStudySessionService(sessionStore, nil)
	require.NoError(t, err)

	primary := &mocks.MockProvider{ProviderName: "Gemini", Text: opts.primaryText, Err: opts.primaryErr}
	secondary := &mocks.MockProvider{ProviderName: "Groq", Text: opts.secondaryText, Err: opts.secondaryErr}
	health := generation.NewProviderHealth()
	if !opts.primaryInactive {
		health.MarkActive()
	}
	gateway, err := generation.NewGateway(primary, secondary, health, generation.GatewayConfig{Timeout: time.Second}, nil)
	require.NoError(t, err)

	studyGen, err := generation.NewStudyGenerator(gateway, nil)
	require.NoError(t, err)

	extractor := extract.New(nil, extract.WithTimeout(opts.extractTimeout))

	authHandler := api.NewAuthHandler(authenticator, nil)
	generateHandler := api.NewGenerateHandler(gateway, nil)
	extractHandler := api.NewExtractHandler(extractor, opts.maxUploadBytes, nil)
	studyHandler := api.NewStudyHandler(studyGen, sessions, nil)
	healthHandler := api.NewHealthHandler(health)
	authMiddleware := apimw.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(apimw.NewTraceMiddleware(nil))
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generateHandler.Generate)
		r.Post("/extract", extractHandler.Extract)
		r.Post("/study/flashcards", studyHandler.Flashcards)
		r.Post("/study/quiz", studyHandler.Quiz)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/study/save", studyHandler.Save)
			r.Get("/study/history", studyHandler.History)
			r.Get("/study/sessions/{id}", studyHandler.GetSession)
			r.Delete("/study/sessions/{id}", studyHandler.DeleteSession)
		})
	})
	r.Get("/health", healthHandler.Health)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		primary:   primary,
		secondary: secondary,
		health:    health,
		jwt:       jwtService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// register creates a user and returns its access token.
func (e *testEnv) register(t *testing.T, email string) api.AuthResponse {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name:     "Ada",
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out api.AuthResponse
	decodeBody(t, resp, &out)
	return out
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, resp, &body)
	msg, _ := body["error"].(string)
	return msg
}
