// Package sqlite implements the store interfaces on a local SQLite file
// (modernc.org/sqlite, no cgo). It is the default backend when no database
// URL is configured. The file is guarded by an exclusive advisory lock so two
// server processes never share it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/phrazzld/mindflow-api/internal/store"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB is an open SQLite database together with its lock file.
type DB struct {
	*sql.DB
	path string
	lock *flock.Flock
}

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Open acquires the lock for path, opens the database and verifies the
// connection. Returns store.ErrStoreLocked when another process holds the file.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", store.ErrStoreLocked, path)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &DB{DB: db, path: path, lock: lock}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database and releases the lock.
func (d *DB) Close() error {
	closeErr := d.DB.Close()
	if err := d.lock.Unlock(); err != nil && closeErr == nil {
		return fmt.Errorf("release database lock: %w", err)
	}
	return closeErr
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}
