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

// StudySessionStore implements store.StudySessionStore on SQLite.
// Flashcards and quiz questions are stored as JSON text.
type StudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewStudySessionStore creates a study session store on db.
func NewStudySessionStore(db store.DBTX, logger *slog.Logger) *StudySessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudySessionStore{db: db, logger: logger.With("component", "study_session_store")}
}

var _ store.StudySessionStore = (*StudySessionStore)(nil)

// WithTx implements store.StudySessionStore.WithTx.
func (s *StudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &StudySessionStore{db: tx, logger: s.logger}
}

// Create implements store.StudySessionStore.Create.
func (s *StudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	flashcards, quiz, err := store.EncodeStudyContent(session)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (id, user_id, title, original_text, flashcards, quiz, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Title, session.OriginalText,
		string(flashcards), string(quiz), session.CreatedAt.UnixNano())
	if err != nil {
		log.Error("failed to create study session",
			"error", redact.Error(err),
			"session_id", session.ID.String())
		return MapError(err)
	}

	log.Info("study session created",
		"session_id", session.ID.String(),
		"user_id", session.UserID.String())
	return nil
}

// ListByUser implements store.StudySessionStore.ListByUser.
func (s *StudySessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, original_text, flashcards, quiz, created_at
		FROM study_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`, userID)
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
func (s *StudySessionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StudySession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, original_text, flashcards, quiz, created_at
		FROM study_sessions
		WHERE id = ? AND user_id = ?`, id, userID)

	session, err := scanStudySession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStudySessionNotFound
		}
		return nil, store.NewStoreError("study_session", "get", "query failed", MapError(err))
	}
	return session, nil
}

// Delete implements store.StudySessionStore.Delete.
func (s *StudySessionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM study_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return store.NewStoreError("study_session", "delete", "delete failed", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("study_session", "delete", "rows affected", err)
	}
	if n == 0 {
		return store.ErrStudySessionNotFound
	}
	return nil
}

func scanStudySession(row interface{ Scan(...any) error }) (*domain.StudySession, error) {
	var (
		session          domain.StudySession
		flashcards, quiz []byte
		created          int64
	)
	if err := row.Scan(&session.ID, &session.UserID, &session.Title, &session.OriginalText,
		&flashcards, &quiz, &created); err != nil {
		return nil, err
	}
	if err := store.DecodeStudyContent(&session, flashcards, quiz); err != nil {
		return nil, err
	}
	session.CreatedAt = time.Unix(0, created).UTC()
	return &session, nil
}
