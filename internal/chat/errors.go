// ABOUTME: Error types raised by the conversation core
// ABOUTME: ValidationError aborts a request before any model call; ParseError never leaves a component
package chat

import (
	"errors"
	"fmt"
)

// ErrNoContinuation is returned when continue is requested with nothing left to reveal
var ErrNoContinuation = errors.New("no pending continuation")

// ValidationError reports a missing or malformed required request field
type ValidationError struct {
	Field  string
	Reason string // empty means the field was absent
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is, or wraps, a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func required(field string) error {
	return &ValidationError{Field: field}
}

// ParseError reports model output that does not fit the expected mini-grammar
type ParseError struct {
	Kind string // "roles" or "questions"
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no usable %s in model output %q", e.Kind, e.Raw)
}
