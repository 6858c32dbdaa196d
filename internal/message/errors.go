package message

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an update targets a message that is not stored.
var ErrNotFound = errors.New("message not found")

// ValidationError reports a field that violates a constraint.
type ValidationError struct {
	Field string
	Rule  string
	Param string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s: this value should not be blank", e.Field)
	case "max":
		return fmt.Sprintf("%s: this value is too long, it should have %s characters or less", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s: failed on the %q rule", e.Field, e.Rule)
	}
}

// ConflictError is returned when a message id is already stored.
type ConflictError struct {
	ID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("message %s already exists", e.ID)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err carries a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
