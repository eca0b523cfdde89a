package record

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks input that cannot be processed at all. Commands
// abort before touching anything when they see it.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
