// Package storage selects and opens the persistence backend. A configured
// database URL selects PostgreSQL; otherwise a local SQLite file is used.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/platform/migrations"
	"github.com/phrazzld/mindflow-api/internal/platform/postgres"
	"github.com/phrazzld/mindflow-api/internal/platform/sqlite"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// Storage bundles an open database with the stores built on it.
type Storage struct {
	DB       *sql.DB
	Dialect  migrations.Dialect
	Users    store.UserStore
	Sessions store.StudySessionStore

	close  func() error
	logger *slog.Logger
}

// Open connects to the backend selected by cfg. It does not apply
// migrations; call Migrate for that.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.UsePostgres() {
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", "backend", "postgres")
		return &Storage{
			DB:       db,
			Dialect:  migrations.DialectPostgres,
			Users:    postgres.NewPostgresUserStore(db, logger),
			Sessions: postgres.NewPostgresStudySessionStore(db, logger),
			close:    db.Close,
			logger:   logger,
		}, nil
	}

	db, err := sqlite.Open(ctx, cfg.LocalPath)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", "backend", "sqlite", "path", db.Path())
	return &Storage{
		DB:       db.DB,
		Dialect:  migrations.DialectSQLite,
		Users:    sqlite.NewUserStore(db.DB, logger),
		Sessions: sqlite.NewStudySessionStore(db.DB, logger),
		close:    db.Close,
		logger:   logger,
	}, nil
}

// Migrate applies all pending migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := migrations.Up(ctx, s.DB, s.Dialect, s.logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Run executes a migration command and returns the resulting schema version.
func (s *Storage) Run(ctx context.Context, command string) (int64, error) {
	return migrations.Run(ctx, s.DB, s.Dialect, command, s.logger)
}

// Close releases the database and, for SQLite, its file lock.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
