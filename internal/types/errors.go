package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("requested item not found")
	ErrBadRequest = errors.New("bad request")
	// ErrPersistence is returned when the store failed to commit pending changes.
	ErrPersistence = errors.New("failed to persist changes")

	ErrCityNotFound            = fmt.Errorf("%w: city", ErrNotFound)
	ErrPointOfInterestNotFound = fmt.Errorf("%w: point of interest", ErrNotFound)
)

// GenericErrorMessage is what callers see for persistence and unexpected failures.
const GenericErrorMessage = "A problem happened while handling your request."

// ValidationError accumulates field-level messages, keyed by the JSON field name.
type ValidationError struct {
	Errors map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Errors[field] = append(e.Errors[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Errors[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is lets callers match any validation failure with errors.Is(err, ErrBadRequest).
func (e *ValidationError) Is(target error) bool {
	return target == ErrBadRequest
}
