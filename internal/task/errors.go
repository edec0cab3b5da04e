package task

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the store and tracker packages
// matches exactly one of these with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("task not found")
	ErrIO         = errors.New("task file unavailable")
	ErrParse      = errors.New("task file is corrupt")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field string // Name of the offending argument or field
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an operation on an ID that is not in the list.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
