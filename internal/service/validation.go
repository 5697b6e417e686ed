package service

import (
	"errors"
	"strings"
)

// ErrNotFound marks a miss on a point lookup the caller asked for by id.
var ErrNotFound = errors.New("resource not found")

// ValidationResult aggregates invariant and field violations. Validation
// never stops at the first failure: all applicable checks run and every
// failure is collected.
type ValidationResult struct {
	Errors []string
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(message string) {
	r.Errors = append(r.Errors, message)
}

func (r *ValidationResult) merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}

// ValidationError carries an aggregated validation failure across the service
// boundary. Nothing has been written when it surfaces.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func validationError(result ValidationResult) error {
	return &ValidationError{Messages: result.Errors}
}
