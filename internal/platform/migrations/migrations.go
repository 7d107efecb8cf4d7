// Package migrations applies the embedded database schema with goose.
//
// Each supported backend has its own directory of SQL migrations under sql/;
// the schemas are kept equivalent but use native column types (UUID/JSONB/
// TIMESTAMPTZ on PostgreSQL, TEXT/INTEGER on SQLite).
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// Dialect names the database flavour a migration set targets.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var embedded embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Up applies all pending migrations for dialect.
func Up(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	_, err := Run(ctx, db, dialect, CommandUp, logger)
	return err
}

// Run executes a goose command against db and returns the schema version
// after the command completes.
func Run(ctx context.Context, db *sql.DB, dialect Dialect, command string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "migrations", "dialect", string(dialect))

	gooseDialect, dir, err := resolve(dialect)
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedded)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}

	log.Debug("running migration command", "command", command)

	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, dir)
	case CommandVersion:
		// version only reads the table below
	default:
		return 0, fmt.Errorf("unknown migration command: %s (expected up, down, status or version)", command)
	}
	if err != nil {
		return 0, fmt.Errorf("migration %s failed: %w", command, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Info("migration command completed", "command", command, "version", version)
	return version, nil
}

func resolve(dialect Dialect) (gooseDialect, dir string, err error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", "sql/postgres", nil
	case DialectSQLite:
		return "sqlite3", "sql/sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

// slogGooseLogger forwards goose output to slog. Fatalf deliberately does not
// exit; the error is returned to the caller instead.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
