package model

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ValidationError reports every constraint a LogRecord failed.
type ValidationError struct {
	err error
}

// NewValidationError wraps the combined constraint violations.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{err: err}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0)
	for _, err := range e.Errors() {
		msgs = append(msgs, err.Error())
	}
	return "invalid log record: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Errors returns the individual constraint violations.
func (e *ValidationError) Errors() []error {
	return multierr.Errors(e.err)
}

// FieldError is a single violated constraint on a LogRecord field.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "objectid":
		return fmt.Sprintf("%s must be a 24 character hex string", e.Field)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", e.Field, e.Rule)
	}
}

// TransportError is returned when the logs service could not be reached or
// its reply could not be parsed.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error while exporting log to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
