package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")

	// ErrUnauthenticated will throw if an actor is required but none was supplied
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden will throw if the actor lacks the capability for the attempted mutation
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrStructuralViolation will throw if a write would break the thread structure
	ErrStructuralViolation = errors.New("comment thread structure violation")
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")
)

var (
	ErrTooDeep            = fmt.Errorf("%w: maximum reply depth reached", ErrStructuralViolation)
	ErrParentNotApproved  = fmt.Errorf("%w: parent comment is not approved", ErrStructuralViolation)
	ErrInvalidReplyTarget = fmt.Errorf("%w: reply target does not exist", ErrStructuralViolation)

	ErrHasReplies = fmt.Errorf("%w: comment has replies", ErrForbidden)
	ErrEditLocked = fmt.Errorf("%w: comment can no longer be edited", ErrForbidden)
)

// ValidationError carries field level detail for a malformed payload.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
