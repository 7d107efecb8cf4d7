package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/redact"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// PostgresStudySessionStore implements store.StudySessionStore on PostgreSQL.
// Flashcards and quiz questions are stored as JSONB documents.
type PostgresStudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySessionStore creates a study session store on db.
// If logger is nil, the default logger is used.
func NewPostgresStudySessionStore(db store.DBTX, logger *slog.Logger) *PostgresStudySessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudySessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_session_store")),
	}
}

var _ store.StudySessionStore = (*PostgresStudySessionStore)(nil)

// WithTx implements store.StudySessionStore.WithTx.
func (s *PostgresStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &PostgresStudySessionStore{db: tx, logger: s.logger}
}

// Create implements store.StudySessionStore.Create.
func (s *PostgresStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	flashcards, quiz, err := store.EncodeStudyContent(session)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO study_sessions (id, user_id, title, original_text, flashcards, quiz, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.OriginalText,
		string(flashcards),
		string(quiz),
		session.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("study session owner does not exist",
				slog.String("user_id", session.UserID.String()))
			return MapError(err)
		}
		log.Error("failed to create study session",
			slog.String("error", redact.Error(err)),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Info("study session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.Int("flashcards", len(session.Flashcards)),
		slog.Int("quiz_questions", len(session.Quiz)))
	return nil
}

// ListByUser implements store.StudySessionStore.ListByUser.
func (s *PostgresStudySessionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.StudySession, error) {
	query := `
		SELECT id, user_id, title, original_text, flashcards, quiz, created_at
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("study_session", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	sessions := []*domain.StudySession{}
	for rows.Next() {
		session, err := scanStudySession(rows)
		if err != nil {
			return nil, store.NewStoreError("study_session", "list", "scan failed", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("study_session", "list", "iteration failed", MapError(err))
	}
	return sessions, nil
}

// GetByID implements store.StudySessionStore.GetByID.
func (s *PostgresStudySessionStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.StudySession, error) {
	query := `
		SELECT id, user_id, title, original_text, flashcards, quiz, created_at
		FROM study_sessions
		WHERE id = $1 AND user_id = $2
	`
	session, err := scanStudySession(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStudySessionNotFound
		}
		return nil, store.NewStoreError("study_session", "get", "query failed", MapError(err))
	}
	return session, nil
}

// Delete implements store.StudySessionStore.Delete.
func (s *PostgresStudySessionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return store.NewStoreError("study_session", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrStudySessionNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("study session deleted",
		slog.String("session_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudySession(row rowScanner) (*domain.StudySession, error) {
	var (
		session    domain.StudySession
		flashcards []byte
		quiz       []byte
	)
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.OriginalText,
		&flashcards,
		&quiz,
		&session.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := store.DecodeStudyContent(&session, flashcards, quiz); err != nil {
		return nil, err
	}
	session.CreatedAt = session.CreatedAt.UTC()
	return &session, nil
}
