package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrInvalidRequest is returned before any provider call when the prompt
	// is empty or whitespace.
	ErrInvalidRequest = errors.New("prompt is required")

	// ErrAllProvidersFailed is matched by AllProvidersFailedError.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrInvalidResponse is returned by adapters when a provider answers
	// without any usable content.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when a provider blocks the request with a
	// safety filter.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrIncompleteResponse is returned when generated study material cannot
	// be parsed.
	ErrIncompleteResponse = errors.New("AI response was incomplete. Try shorter text.")

	// ErrInvalidConfig is returned when the gateway is constructed without
	// the providers it needs.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)

// ProviderError records the failure of a single provider call.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AllProvidersFailedError is returned when the secondary provider fails.
// Its message is the secondary's own error message; Primary is nil when the
// primary was not attempted.
type AllProvidersFailedError struct {
	Primary   *ProviderError
	Secondary *ProviderError
}

// Error returns the secondary provider's message.
func (e *AllProvidersFailedError) Error() string {
	if e.Secondary == nil || e.Secondary.Err == nil {
		return ErrAllProvidersFailed.Error()
	}
	return e.Secondary.Err.Error()
}

// Is makes errors.Is(err, ErrAllProvidersFailed) hold.
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// Unwrap exposes the secondary failure to errors.As.
func (e *AllProvidersFailedError) Unwrap() error {
	if e.Secondary == nil {
		return nil
	}
	return e.Secondary
}
