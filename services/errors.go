package services

import "errors"

// ErrUnauthenticated is returned when an operation requires an identity
// and none was presented.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrForbidden is returned when the caller is known but not allowed.
var ErrForbidden = errors.New("forbidden")

// ValidationError marks rejected caller input. The message is safe to show
// to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidInput(message string) error {
	return &ValidationError{Message: message}
}
