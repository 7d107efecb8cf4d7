package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// SaveStudySessionInput is the payload of StudySessionService.Save.
type SaveStudySessionInput struct {
	Title        string
	OriginalText string
	Flashcards   []domain.Flashcard
	Quiz         []domain.QuizQuestion
}

// StudySessionService manages the saved study sessions of a user.
type StudySessionService interface {
	// Save validates and stores a new session for userID.
	Save(ctx context.Context, userID uuid.UUID, input SaveStudySessionInput) (*domain.StudySession, error)

	// List returns the user's sessions newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error)

	// Get returns one session or ErrStudySessionNotFound.
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// Delete removes one session or returns ErrStudySessionNotFound.
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

type studySessionServiceImpl struct {
	sessions store.StudySessionStore
	logger   *slog.Logger
}

// NewStudySessionService creates a StudySessionService on sessions.
func NewStudySessionService(sessions store.StudySessionStore, logger *slog.Logger) (StudySessionService, error) {
	if sessions == nil {
		return nil, errors.New("sessions cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &studySessionServiceImpl{
		sessions: sessions,
		logger:   logger.With("component", "study_session_service"),
	}, nil
}

func (s *studySessionServiceImpl) Save(
	ctx context.Context,
	userID uuid.UUID,
	input SaveStudySessionInput,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewStudySession(userID, input.Title, input.OriginalText, input.Flashcards, input.Quiz)
	if err != nil {
		log.Debug("study session rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, NewStudySessionServiceError("save", "failed to store session", err)
	}

	log.Info("study session saved",
		"session_id", session.ID.String(),
		"user_id", userID.String(),
		"title", session.Title)
	return session, nil
}

func (s *studySessionServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewStudySessionServiceError("list", "failed to list sessions", err)
	}
	return sessions, nil
}

func (s *studySessionServiceImpl) Get(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, NewStudySessionServiceError("get", "failed to load session", err)
	}
	return session, nil
}

func (s *studySessionServiceImpl) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, userID, sessionID); err != nil {
		return NewStudySessionServiceError("delete", "failed to delete session", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("study session deleted",
		"session_id", sessionID.String(),
		"user_id", userID.String())
	return nil
}
