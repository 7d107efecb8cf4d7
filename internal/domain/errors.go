package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Field-specific errors below wrap it so callers can test for either.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyUserID is returned when a user ID is the nil UUID.
	ErrEmptyUserID = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)

	// ErrEmptyEmail is returned when an email address is blank.
	ErrEmptyEmail = fmt.Errorf("%w: email cannot be empty", ErrValidation)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)

	// ErrPasswordTooLong is returned for passwords over MaxPasswordLength.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)

	// ErrEmptyPassword is returned when neither a password nor a hash is present.
	ErrEmptyPassword = fmt.Errorf("%w: password cannot be empty", ErrValidation)

	// ErrNameTooLong is returned for display names over MaxNameLength.
	ErrNameTooLong = fmt.Errorf("%w: name must be at most 100 characters long", ErrValidation)

	// ErrInvalidFlashcard is returned for a flashcard missing its question or answer.
	ErrInvalidFlashcard = fmt.Errorf("%w: flashcard requires a question and an answer", ErrValidation)

	// ErrInvalidQuizQuestion is returned for a malformed multiple-choice question.
	ErrInvalidQuizQuestion = fmt.Errorf("%w: quiz question requires a question, 4 options and a correct index between 0 and 3", ErrValidation)

	// ErrTitleTooLong is returned for session titles over MaxTitleLength.
	ErrTitleTooLong = fmt.Errorf("%w: title must be at most 200 characters long", ErrValidation)
)
