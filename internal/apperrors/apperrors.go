package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the single checked failure the core propagates: a
	// referenced problem, course, student or pairing record does not exist.
	ErrNotFound = errors.New("entity not found")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")
)

type ProblemNotFoundError struct{ ProblemID int64 }

func (e *ProblemNotFoundError) Error() string {
	return fmt.Sprintf("problem '%d' not found", e.ProblemID)
}
func (e *ProblemNotFoundError) Is(target error) bool { return target == ErrNotFound }

type CourseNotFoundError struct{ CourseID int64 }

func (e *CourseNotFoundError) Error() string {
	return fmt.Sprintf("course '%d' not found", e.CourseID)
}
func (e *CourseNotFoundError) Is(target error) bool { return target == ErrNotFound }

type StudentNotFoundError struct{ Account string }

func (e *StudentNotFoundError) Error() string {
	return fmt.Sprintf("student '%s' not found", e.Account)
}
func (e *StudentNotFoundError) Is(target error) bool { return target == ErrNotFound }

// TeamNotFoundError names the (problem, account) pairing that was missing so
// a failed batch submit can report which target broke it.
type TeamNotFoundError struct {
	ProblemID int64
	Account   string
}

func (e *TeamNotFoundError) Error() string {
	return fmt.Sprintf("no pairing for account '%s' on problem '%d'", e.Account, e.ProblemID)
}
func (e *TeamNotFoundError) Is(target error) bool { return target == ErrNotFound }
