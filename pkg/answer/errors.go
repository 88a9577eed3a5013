package answer

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is user facing: the client exceeded its per-minute budget
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrProviderUnavailable never leaves the provider layer; it is mapped to StatusUnavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmptyTerminalAnswer means the rule-based templates produced no text, which is a configuration bug
	ErrEmptyTerminalAnswer = errors.New("rule-based tier produced an empty answer")

	// ErrMalformedContext is returned for unknown context enum values
	ErrMalformedContext = errors.New("malformed context")

	// ErrEmptyQuestion is returned when the question has no text at all
	ErrEmptyQuestion = errors.New("question is empty")
)

// ValidationError names the context field that failed validation
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformedContext
}
