package domain

import "fmt"

// ValidationError rejects cart input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RemoteCartError wraps a failed call to the remote cart service.
type RemoteCartError struct {
	Op  string
	Err error
}

func (e *RemoteCartError) Error() string {
	return fmt.Sprintf("remote cart %s: %v", e.Op, e.Err)
}

func (e *RemoteCartError) Unwrap() error {
	return e.Err
}

// PersistenceError is raised by the guest cart store. It is logged, never returned to cart callers.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s[%s]: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
