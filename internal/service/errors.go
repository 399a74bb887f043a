package service

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates that a variant has no configuration record where
// one is required before submissions are accepted.
var ErrNotConfigured = errors.New("no configuration available")

// ErrInvalidCode indicates that the submitted access code does not match the
// configured one.
var ErrInvalidCode = errors.New("invalid access code")

// ErrNotFound indicates that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// InputError indicates missing or malformed client input. Handlers map it to
// a 400 response carrying the reason.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// NewInputError creates an InputError with a formatted reason.
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError indicates a failure in an external collaborator (object
// storage, generation service, database). Handlers map it to a 500 response
// with a generic message; the cause is only logged server-side.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
