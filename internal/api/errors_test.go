package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/extract"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/service"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
	"github.com/phrazzld/mindflow-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	allFailed := &generation.AllProvidersFailedError{
		Primary:   &generation.ProviderError{Provider: "Gemini", Err: errors.New("a")},
		Secondary: &generation.ProviderError{Provider: "Groq", Err: errors.New("b")},
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"wrong password", fmt.Errorf("login: %w", auth.ErrInvalidPassword), http.StatusUnauthorized},
		{"unknown user", auth.ErrUserNotFound, http.StatusUnauthorized},
		{"session not found", service.ErrStudySessionNotFound, http.StatusNotFound},
		{"store not found", store.ErrStudySessionNotFound, http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusConflict},
		{"domain validation", domain.ErrTitleTooLong, http.StatusBadRequest},
		{"empty prompt", generation.ErrInvalidRequest, http.StatusBadRequest},
		{"unsupported document", extract.ErrUnsupportedType, http.StatusUnprocessableEntity},
		{"extraction timeout", extract.ErrExtractionTimeout, http.StatusUnprocessableEntity},
		{"incomplete response", generation.ErrIncompleteResponse, http.StatusBadGateway},
		{"blocked", generation.ErrContentBlocked, http.StatusBadGateway},
		{"all providers failed", allFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("validation text is shown without prefix", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrTitleTooLong)
		assert.Equal(t, "title must be at most 200 characters long", GetSafeErrorMessage(err))
	})

	t.Run("all providers failed is redacted", func(t *testing.T) {
		err := &generation.AllProvidersFailedError{
			Primary: &generation.ProviderError{Provider: "Gemini", Err: errors.New("a")},
			Secondary: &generation.ProviderError{
				Provider: "Groq",
				Err:      errors.New("bad key gsk_abcdefghijklmnopqrstuvwxyz0123"),
			},
		}
		msg := GetSafeErrorMessage(err)
		assert.NotContains(t, msg, "gsk_abcdefghijklmnopqrstuvwxyz0123")
		assert.Contains(t, msg, "bad key")
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		assert.Equal(t, MsgUnexpected, GetSafeErrorMessage(errors.New("pq: connection refused")))
		assert.Equal(t, MsgUnexpected, GetSafeErrorMessage(nil))
	})

	t.Run("credentials", func(t *testing.T) {
		assert.Equal(t, MsgInvalidCredentials, GetSafeErrorMessage(auth.ErrUserNotFound))
		assert.Equal(t, MsgInvalidCredentials, GetSafeErrorMessage(auth.ErrInvalidPassword))
	})
}
