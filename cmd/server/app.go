package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/extract"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/providers"
	"github.com/phrazzld/mindflow-api/internal/platform/storage"
	"github.com/phrazzld/mindflow-api/internal/service"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storage *storage.Storage

	// Service interfaces
	jwtService     auth.JWTService
	authenticator  *auth.Authenticator
	sessionService service.StudySessionService

	// Generation
	providers *providers.Set
	health    *generation.ProviderHealth
	gateway   *generation.Gateway
	study     *generation.StudyGenerator
	extractor *extract.Extractor
}

// newApplication creates an application with all dependencies initialized.
// The database is opened and migrated here.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	st, err := storage.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app, err := buildApplication(ctx, cfg, logger, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

func buildApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	st *storage.Storage,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		storage: st,
		health:  generation.NewProviderHealth(),
	}

	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.authenticator, err = auth.NewAuthenticator(
		st.DB,
		st.Users,
		app.jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	app.sessionService, err = service.NewStudySessionService(st.Sessions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study session service: %w", err)
	}

	app.providers, err = providers.New(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	app.gateway, err = app.providers.NewGateway(cfg.LLM, app.health, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation gateway: %w", err)
	}

	app.study, err = generation.NewStudyGenerator(
		app.gateway,
		generation.NewPromptBuilder(cfg.Extract.MaxSourceChars),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study generator: %w", err)
	}

	app.extractor = extract.New(logger, extract.WithTimeout(cfg.Extract.Timeout()))

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the provider probe and the HTTP server, and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	listener, err := app.listen()
	if err != nil {
		app.cleanup()
		return fmt.Errorf("server error: %w", err)
	}
	return app.run(ctx, listener)
}

func (app *application) run(ctx context.Context, listener net.Listener) error {
	defer app.cleanup()

	// The probe never blocks startup; requests arriving before it resolves
	// go to the secondary provider.
	generation.StartProbe(ctx, app.providers.Primary, app.health, app.config.LLM.RequestTimeout(), app.logger)

	if err := app.serve(ctx, listener, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.storage != nil {
		if err := app.storage.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
