package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced season, game, or player does not exist
var ErrNotFound = errors.New("not found")

// ValidationError marks a user-correctable admission failure. Handlers map it
// to a 400 response; anything else is a server-side failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
