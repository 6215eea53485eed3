package service

import (
	"errors"
	"fmt"
)

// Validation failures. Surfaced to the caller as 400 with the error text.
var (
	ErrEmptyDescription   = errors.New("Enter a task description.")
	ErrDescriptionTooLong = errors.New("The description is too long (255 characters max).")
	ErrNotesTooLong       = errors.New("Notes are too long (1000 characters max).")
)

// LimitExceededError is returned when the owner's task count has reached the
// configured cap. Surfaced as 409.
type LimitExceededError struct {
	Max int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("You can keep at most %d tasks. Delete some tasks to make room.", e.Max)
}

// IsValidation reports whether err is a recoverable input validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrNotesTooLong)
}
