package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/mindflow-api/internal/api/shared"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/redact"
)

// GenerateHandler exposes the generation gateway directly.
type GenerateHandler struct {
	gateway generation.Completer
	logger  *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(gateway generation.Completer, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{gateway: gateway, logger: logger.With("component", "generate_handler")}
}

// Generate handles POST /api/generate. A missing body counts as an empty
// prompt.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}
	if req.Prompt == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgPromptRequired)
		return
	}

	result, err := h.gateway.Generate(r.Context(), generation.Request{
		Prompt:            req.Prompt,
		SystemInstruction: req.System,
	})
	if err != nil {
		if errors.Is(err, generation.ErrAllProvidersFailed) {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, redact.String(err.Error()), err)
			return
		}
		HandleAPIError(w, r, err, "Generation failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Content:  []ContentPart{{Text: result.Text}},
		Provider: result.ProviderName,
	})
}
