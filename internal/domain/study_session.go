package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is used when a session is saved without a title.
const DefaultSessionTitle = "Untitled Session"

// Quiz question shape and title limit.
const (
	QuizOptionCount = 4
	MaxTitleLength  = 200
)

// Flashcard is a single question/answer pair generated from source text.
// The JSON field names match the format the language model is asked to emit.
type Flashcard struct {
	Question string `json:"question" jsonschema:"minLength=1"`
	Answer   string `json:"answer" jsonschema:"minLength=1"`
}

// Validate checks that both sides of the card are present.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
		return ErrInvalidFlashcard
	}
	return nil
}

// QuizQuestion is a multiple-choice question with exactly four options.
type QuizQuestion struct {
	Question     string   `json:"question" jsonschema:"minLength=1"`
	Options      []string `json:"options" jsonschema:"minItems=4,maxItems=4"`
	CorrectIndex int      `json:"correctIndex" jsonschema:"minimum=0,maximum=3"`
	Explanation  string   `json:"explanation"`
}

// Validate checks the question text, option count and answer index.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrInvalidQuizQuestion
	}
	if len(q.Options) != QuizOptionCount {
		return ErrInvalidQuizQuestion
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= QuizOptionCount {
		return ErrInvalidQuizQuestion
	}
	return nil
}

// StudySession is a saved set of generated study material owned by a user.
type StudySession struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	OriginalText string
	Flashcards   []Flashcard
	Quiz         []QuizQuestion
	CreatedAt    time.Time
}

// NewStudySession creates a session for userID. A blank title is replaced by
// DefaultSessionTitle. Nil slices are normalised to empty ones so the stored
// JSON is always an array.
func NewStudySession(
	userID uuid.UUID,
	title, originalText string,
	flashcards []Flashcard,
	quiz []QuizQuestion,
) (*StudySession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultSessionTitle
	}
	if flashcards == nil {
		flashcards = []Flashcard{}
	}
	if quiz == nil {
		quiz = []QuizQuestion{}
	}

	session := &StudySession{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		OriginalText: originalText,
		Flashcards:   flashcards,
		Quiz:         quiz,
		CreatedAt:    time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate checks ownership, title length and every contained item.
func (s *StudySession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if len(s.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	for _, f := range s.Flashcards {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	for _, q := range s.Quiz {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}
