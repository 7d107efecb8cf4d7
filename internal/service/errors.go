// Package service holds the application services that sit between the HTTP
// handlers and the stores.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/mindflow-api/internal/store"
)

// ErrStudySessionNotFound indicates that the session does not exist or is
// owned by another user. The API maps it to 404.
var ErrStudySessionNotFound = errors.New("study session not found")

// StudySessionServiceError wraps unexpected failures of the study session
// service with the operation that failed.
type StudySessionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *StudySessionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study session service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study session service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudySessionServiceError) Unwrap() error {
	return e.Err
}

// NewStudySessionServiceError wraps err. Not-found errors are returned as the
// service sentinel and validation errors pass through unwrapped so the API
// layer can report them as 400.
func NewStudySessionServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStudySessionNotFound) || errors.Is(err, store.ErrStudySessionNotFound) {
		return ErrStudySessionNotFound
	}
	if errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	return &StudySessionServiceError{Operation: operation, Message: message, Err: err}
}
