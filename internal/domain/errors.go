package domain

import (
	"errors"
	"fmt"
)

// Closed set of failure kinds crossing the engine boundary. Callers match
// with errors.Is instead of inspecting message text.
var (
	ErrAuthentication    = errors.New("authentication failed")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrPersistence       = errors.New("persistence failure")
)

// Errorf attaches a human-readable message to one of the failure kinds.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
