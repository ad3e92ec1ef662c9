package domain

import (
	"errors"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrSessionNotFound = errors.New("registration session not found")
	ErrInvalidStep     = errors.New("Invalid registration step")
)

// ValidationError reports every missing or malformed field found in one pass.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PreconditionError signals a step invoked before its prerequisite step
// completed. The message tells the client which step to complete first.
type PreconditionError struct {
	Step    RegistrationStep
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
