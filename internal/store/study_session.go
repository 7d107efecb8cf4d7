package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
)

// StudySessionStore defines the interface for saved study session persistence.
// Every read and delete is scoped to the owning user; a session owned by
// someone else is indistinguishable from a missing one.
type StudySessionStore interface {
	// Create saves a new study session.
	// Returns ErrInvalidEntity if the session fails validation and
	// ErrForeignKey if the owning user does not exist.
	Create(ctx context.Context, session *domain.StudySession) error

	// ListByUser returns the user's sessions ordered newest first.
	// An empty slice (not an error) is returned when there are none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error)

	// GetByID returns one session. Returns ErrStudySessionNotFound when it is
	// missing or owned by another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StudySession, error)

	// Delete removes one session. Returns ErrStudySessionNotFound when it is
	// missing or owned by another user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a StudySessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) StudySessionStore
}

// EncodeStudyContent serialises the flashcards and quiz of a session into the
// JSON documents stored by the SQL backends.
func EncodeStudyContent(session *domain.StudySession) (flashcards, quiz []byte, err error) {
	cards := session.Flashcards
	if cards == nil {
		cards = []domain.Flashcard{}
	}
	questions := session.Quiz
	if questions == nil {
		questions = []domain.QuizQuestion{}
	}

	if flashcards, err = json.Marshal(cards); err != nil {
		return nil, nil, fmt.Errorf("encode flashcards: %w", err)
	}
	if quiz, err = json.Marshal(questions); err != nil {
		return nil, nil, fmt.Errorf("encode quiz: %w", err)
	}
	return flashcards, quiz, nil
}

// DecodeStudyContent is the inverse of EncodeStudyContent.
func DecodeStudyContent(session *domain.StudySession, flashcards, quiz []byte) error {
	session.Flashcards = []domain.Flashcard{}
	session.Quiz = []domain.QuizQuestion{}

	if len(flashcards) > 0 {
		if err := json.Unmarshal(flashcards, &session.Flashcards); err != nil {
			return fmt.Errorf("decode flashcards: %w", err)
		}
	}
	if len(quiz) > 0 {
		if err := json.Unmarshal(quiz, &session.Quiz); err != nil {
			return fmt.Errorf("decode quiz: %w", err)
		}
	}
	return nil
}
