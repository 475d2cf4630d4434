package errors

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when no furniture record matches a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("furniture %q not found", e.Name)
}

// NewNotFoundError creates a NotFoundError for name.
func NewNotFoundError(name string) *NotFoundError {
	return &NotFoundError{Name: name}
}

// IsNotFoundError reports whether err is a NotFoundError (even when wrapped).
func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// UniqueConstraintError is returned when inserting a record whose name is already taken.
type UniqueConstraintError struct {
	Name string
	Err  error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("furniture %q already exists", e.Name)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}

// NewUniqueConstraintError creates a UniqueConstraintError for name, keeping the driver error.
func NewUniqueConstraintError(name string, err error) *UniqueConstraintError {
	return &UniqueConstraintError{Name: name, Err: err}
}

// IsUniqueConstraintError reports whether err is a UniqueConstraintError (even when wrapped).
func IsUniqueConstraintError(err error) bool {
	var unique *UniqueConstraintError
	return errors.As(err, &unique)
}

// ValidationError describes a single field that failed input checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}
