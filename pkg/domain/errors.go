package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when simulation parameters are out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDidNotConverge is returned when a run hits its day ceiling with infections remaining.
var ErrDidNotConverge = errors.New("simulation did not converge")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ValidationError represents a single parameter validation failure.
type ValidationError struct {
	Field  string // Parameter name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalidArgument).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
