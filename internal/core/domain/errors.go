package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserExists         = errors.New("user already registered")
	ErrValidation         = errors.New("validation failed")
)

// ProviderError carries the raw message from the auth provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider: %s (status %d)", e.Message, e.Status)
}

// APIError is a non-2xx response from the arena backend.
type APIError struct {
	Status int
	Detail string
}

// DefaultAPIDetail is used when the backend does not send a detail field.
const DefaultAPIDetail = "API request failed"

func (e *APIError) Error() string {
	return e.Detail
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// FormError is a user-facing validation or submission failure. Its message is
// safe to show inline.
type FormError struct {
	Message string
	Err     error
}

func NewFormError(msg string) *FormError {
	return &FormError{Message: msg, Err: ErrValidation}
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// Notices shown by views.
const (
	NoticeServerOffline = "Server offline."
	NoticeNotLoggedIn   = "Not logged in."
)
