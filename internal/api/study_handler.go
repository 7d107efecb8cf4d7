package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/mindflow-api/internal/api/shared"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/redact"
	"github.com/phrazzld/mindflow-api/internal/service"
)

// StudyMaterialGenerator produces study material from source text.
type StudyMaterialGenerator interface {
	GenerateFlashcards(ctx context.Context, text string) ([]domain.Flashcard, string, error)
	GenerateQuiz(ctx context.Context, text string) ([]domain.QuizQuestion, string, error)
}

// StudyHandler serves study material generation and saved sessions.
type StudyHandler struct {
	generator StudyMaterialGenerator
	sessions  service.StudySessionService
	logger    *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(
	generator StudyMaterialGenerator,
	sessions service.StudySessionService,
	logger *slog.Logger,
) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		generator: generator,
		sessions:  sessions,
		logger:    logger.With("component", "study_handler"),
	}
}

// Flashcards handles POST /api/study/flashcards.
func (h *StudyHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	text, ok := h.decodeText(w, r)
	if !ok {
		return
	}

	cards, provider, err := h.generator.GenerateFlashcards(r.Context(), text)
	if err != nil {
		h.handleGenerationError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("flashcards generated",
		"count", len(cards), "provider", provider)
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{Flashcards: cards, Provider: provider})
}

// Quiz handles POST /api/study/quiz.
func (h *StudyHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	text, ok := h.decodeText(w, r)
	if !ok {
		return
	}

	questions, provider, err := h.generator.GenerateQuiz(r.Context(), text)
	if err != nil {
		h.handleGenerationError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("quiz generated",
		"count", len(questions), "provider", provider)
	shared.RespondWithJSON(w, r, http.StatusOK, QuizResponse{Quiz: questions, Provider: provider})
}

// Save handles POST /api/study/save.
func (h *StudyHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SaveStudySessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.Save(r.Context(), userID, service.SaveStudySessionInput{
		Title:        req.Title,
		OriginalText: req.OriginalText,
		Flashcards:   req.Flashcards,
		Quiz:         req.Quiz,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newStudySessionResponse(session))
}

// History handles GET /api/study/history.
func (h *StudyHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessions, err := h.sessions.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load study history")
		return
	}

	resp := make([]StudySessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, newStudySessionResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetSession handles GET /api/study/sessions/{id}.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newStudySessionResponse(session))
}

// DeleteSession handles DELETE /api/study/sessions/{id}.
func (h *StudyHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.Delete(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete study session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StudyHandler) decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req StudyTextRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgTextRequired)
		return "", false
	}
	return req.Text, true
}

func (h *StudyHandler) handleGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, generation.ErrInvalidRequest):
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgTextRequired)
	case errors.Is(err, generation.ErrAllProvidersFailed):
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, redact.String(err.Error()), err)
	default:
		HandleAPIError(w, r, err, "Failed to generate study material")
	}
}
