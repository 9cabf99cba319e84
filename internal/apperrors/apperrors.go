package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("state conflict")

	ErrInvalidRequest = errors.New("invalid request body")
)

// Stable kind codes exposed to callers.
const (
	KindUnauthenticated = "UNAUTHENTICATED"
	KindForbidden       = "FORBIDDEN"
	KindValidation      = "VALIDATION"
	KindNotFound        = "NOT_FOUND"
	KindConflict        = "CONFLICT"
	KindInternal        = "INTERNAL"
)

// Error is a classified failure with a message that is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string        { return e.Message }
func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

func Unauthenticated(msg string) error { return newError(ErrUnauthenticated, msg) }
func Forbidden(msg string) error       { return newError(ErrForbidden, msg) }
func Validation(msg string) error      { return newError(ErrValidation, msg) }
func NotFound(msg string) error        { return newError(ErrNotFound, msg) }
func Conflict(msg string) error        { return newError(ErrConflict, msg) }

type QuestionNotFoundError struct{ QuestionID string }

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question '%s' not found", e.QuestionID)
}
func (e *QuestionNotFoundError) Is(target error) bool { return target == ErrNotFound }

type CommentNotFoundError struct {
	QuestionID string
	CommentID  string
}

func (e *CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment '%s' not found on question '%s'", e.CommentID, e.QuestionID)
}
func (e *CommentNotFoundError) Is(target error) bool { return target == ErrNotFound }

// KindOf maps err to its stable kind code. Errors outside the taxonomy are INTERNAL.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRequest):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
