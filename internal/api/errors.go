package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/mindflow-api/internal/api/shared"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/extract"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/redact"
	"github.com/phrazzld/mindflow-api/internal/service"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// Client-facing messages shared by several handlers.
const (
	MsgPromptRequired     = "Prompt is required"
	MsgTextRequired       = "Text is required"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidRequest     = "Invalid request format"
	MsgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. It is the
// only place where that mapping lives.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidPassword):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrStudySessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Documents the server cannot read
	case errors.Is(err, extract.ErrUnsupportedType),
		errors.Is(err, extract.ErrEmptyDocument),
		errors.Is(err, extract.ErrExtraction),
		errors.Is(err, extract.ErrExtractionTimeout):
		return http.StatusUnprocessableEntity

	// A provider answered, but not with usable study material
	case errors.Is(err, generation.ErrIncompleteResponse),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message shown to clients for err. When
// every provider failed, the secondary provider's message is returned with
// credentials redacted.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidPassword):
		return MsgInvalidCredentials

	case errors.Is(err, service.ErrStudySessionNotFound),
		errors.Is(err, store.ErrStudySessionNotFound):
		return "Study session not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, generation.ErrInvalidRequest):
		return MsgPromptRequired
	case errors.Is(err, shared.ErrEmptyBody):
		return MsgInvalidRequest

	case errors.Is(err, extract.ErrUnsupportedType):
		return extract.ErrUnsupportedType.Error()
	case errors.Is(err, extract.ErrEmptyDocument):
		return extract.ErrEmptyDocument.Error()
	case errors.Is(err, extract.ErrExtractionTimeout):
		return extract.ErrExtractionTimeout.Error()
	case errors.Is(err, extract.ErrExtraction):
		return extract.ErrExtraction.Error()

	case errors.Is(err, generation.ErrIncompleteResponse):
		return generation.ErrIncompleteResponse.Error()
	case errors.Is(err, generation.ErrContentBlocked):
		return "The AI provider refused to process this content."
	case errors.Is(err, generation.ErrInvalidResponse):
		return "The AI provider returned an invalid response."
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return redact.String(err.Error())

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the status and message derived from err. A non-empty
// fallbackMessage replaces the generic text of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" &&
		!errors.Is(err, generation.ErrAllProvidersFailed) {
		message = fallbackMessage
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
	}
	if errors.Is(err, domain.ErrValidation) {
		return validationMessage(err)
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "len":
		return "wrong length"
	default:
		return "validation failed"
	}
}

// validationMessage strips the generic prefix from domain validation errors,
// whose remaining text is written for end users.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return "Validation error"
}
