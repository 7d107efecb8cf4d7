package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse is returned by register, login and refresh. User is omitted
// on refresh.
type AuthResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is used to obtain a new pair
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 expiry of the access token
	ExpiresAt string `json:"expires_at"`

	User *UserResponse `json:"user,omitempty"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
}

// ContentPart is one block of generated text.
type ContentPart struct {
	Text string `json:"text"`
}

// GenerateResponse is the normalised provider answer.
type GenerateResponse struct {
	Content  []ContentPart `json:"content"`
	Provider string        `json:"provider"`
}

// ExtractResponse is the body returned by POST /api/extract.
type ExtractResponse struct {
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}

// StudyTextRequest is the body of the flashcard and quiz endpoints.
type StudyTextRequest struct {
	Text string `json:"text"`
}

// FlashcardsResponse carries generated flashcards.
type FlashcardsResponse struct {
	Flashcards []domain.Flashcard `json:"flashcards"`
	Provider   string             `json:"provider"`
}

// QuizResponse carries generated quiz questions.
type QuizResponse struct {
	Quiz     []domain.QuizQuestion `json:"quiz"`
	Provider string                `json:"provider"`
}

// SaveStudySessionRequest is the body of POST /api/study/save.
type SaveStudySessionRequest struct {
	Title        string                `json:"title"`
	OriginalText string                `json:"originalText"`
	Flashcards   []domain.Flashcard    `json:"flashcards"`
	Quiz         []domain.QuizQuestion `json:"quiz"`
}

// StudySessionResponse is the public view of a saved session.
type StudySessionResponse struct {
	ID           uuid.UUID             `json:"id"`
	UserID       uuid.UUID             `json:"userId"`
	Title        string                `json:"title"`
	OriginalText string                `json:"originalText"`
	Flashcards   []domain.Flashcard    `json:"flashcards"`
	Quiz         []domain.QuizQuestion `json:"quiz"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	PrimaryProvider string `json:"primary_provider"`
}

func newUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func newStudySessionResponse(s *domain.StudySession) StudySessionResponse {
	flashcards := s.Flashcards
	if flashcards == nil {
		flashcards = []domain.Flashcard{}
	}
	quiz := s.Quiz
	if quiz == nil {
		quiz = []domain.QuizQuestion{}
	}
	return StudySessionResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		Title:        s.Title,
		OriginalText: s.OriginalText,
		Flashcards:   flashcards,
		Quiz:         quiz,
		CreatedAt:    s.CreatedAt,
	}
}
