package application

import (
	"errors"
	"fmt"
	"strings"
)

// Caller-facing error taxonomy. Transport layers map these onto HTTP statuses
// (401, 404, 403, 409, 422); anything unrecognized is reported as internal.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("already exists")
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the ordered list of all field violations found in
// one pass; field checks never stop at the first failure.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
