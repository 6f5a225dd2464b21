package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed caller input: an unrecognized sensor type,
// out-of-range coordinates, or a non-finite measurement.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to a sensor that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// StorageError wraps a failed store operation. Failures propagate directly to
// the caller; nothing in the core retries or suppresses them.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
