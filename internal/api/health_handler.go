package api

import (
	"net/http"

	"github.com/phrazzld/mindflow-api/internal/api/shared"
	"github.com/phrazzld/mindflow-api/internal/generation"
)

// HealthHandler reports liveness and the primary provider's state.
type HealthHandler struct {
	health *generation.ProviderHealth
}

// NewHealthHandler creates a HealthHandler reading health.
func NewHealthHandler(health *generation.ProviderHealth) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	state := generation.HealthDisabled
	if h.health != nil {
		state = h.health.State()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:          "ok",
		PrimaryProvider: state.String(),
	})
}
