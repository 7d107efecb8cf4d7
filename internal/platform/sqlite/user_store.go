package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/redact"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// UserStore implements store.UserStore on SQLite. Timestamps are stored as
// Unix nanoseconds.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a user store on db. If logger is nil, the default
// logger is used.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{db: db, logger: logger.With("component", "user_store")}
}

var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, hashed_password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.HashedPassword,
		user.CreatedAt.UnixNano(), user.UpdatedAt.UnixNano())
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create user", "error", redact.Error(err))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	log.Info("user created", "user_id", user.ID.String())
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `
		SELECT id, email, name, hashed_password, created_at, updated_at
		FROM users WHERE id = ?`, id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `
		SELECT id, email, name, hashed_password, created_at, updated_at
		FROM users WHERE email = ?`, domain.NormalizeEmail(email))
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user             domain.User
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.HashedPassword, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}
	user.CreatedAt = time.Unix(0, created).UTC()
	user.UpdatedAt = time.Unix(0, updated).UTC()
	return &user, nil
}
