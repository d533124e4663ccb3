package application

import (
	"errors"
	"fmt"

	"github.com/example/interview-sessions/internal/joinwindow"
)

var (
	// ErrNotFound is returned when the requested schedule or session does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrUnauthorized is returned when the caller is not a party to the schedule or session.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrInvalidState is returned when an operation targets a session that has
	// already completed or been canceled.
	ErrInvalidState = errors.New("application: session already terminal")
	// ErrConflict is returned when a concurrent update raced the caller past
	// the internal retry.
	ErrConflict = errors.New("application: concurrent update conflict")
)

// UpstreamError wraps a collaborator failure. Retryable signals that the
// caller may repeat the operation; fire-and-forget paths never surface it.
type UpstreamError struct {
	Collaborator string
	Retryable    bool
	Err          error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("application: %s collaborator failed: %v", e.Collaborator, e.Err)
}

// Unwrap exposes the wrapped cause.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func upstream(collaborator string, retryable bool, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Collaborator: collaborator, Retryable: retryable, Err: err}
}

// IsSchedulingViolation reports whether the error is a join-window violation.
func IsSchedulingViolation(err error) bool {
	var violation *joinwindow.Violation
	return errors.As(err, &violation)
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
