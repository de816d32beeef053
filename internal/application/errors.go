package application

import (
	"errors"
	"fmt"

	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique attribute collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when the account exists but cannot sign in.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when the presented session has lapsed.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when the presented session was revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
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

// ConflictError reports that a course could not be scheduled because its
// occurrences collide with existing bookings. It carries the full detector
// report so callers can render every collision.
type ConflictError struct {
	Report scheduler.Report
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("scheduling conflict: %d conflicting occurrence(s)", len(c.Report.Conflicts))
}

// StorageError wraps persistence failures that are neither validation nor
// lookup problems, so transport layers can map them to a 5xx uniformly.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (s *StorageError) Error() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("storage failure during %s: %v", s.Op, s.Err)
}

// Unwrap exposes the underlying cause.
func (s *StorageError) Unwrap() error {
	if s == nil {
		return nil
	}
	return s.Err
}
