package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrInstallmentNotFound = errors.New("installment not found")
)

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ConstraintViolation reports a business-rule breach. The message carries the
// offending numbers rounded to two decimals.
type ConstraintViolation struct {
	Message string
}

func (e *ConstraintViolation) Error() string { return e.Message }

func NewConstraintViolation(format string, args ...interface{}) *ConstraintViolation {
	return &ConstraintViolation{Message: fmt.Sprintf(format, args...)}
}

// IsConstraintViolation reports whether err is (or wraps) a ConstraintViolation.
func IsConstraintViolation(err error) bool {
	var v *ConstraintViolation
	return errors.As(err, &v)
}

// DependencyFailure wraps an error from an external collaborator.
type DependencyFailure struct {
	Dependency string
	Err        error
}

func (e *DependencyFailure) Error() string {
	return fmt.Sprintf("%s dependency failed: %v", e.Dependency, e.Err)
}

func (e *DependencyFailure) Unwrap() error { return e.Err }

// IsDependencyFailure reports whether err is (or wraps) a DependencyFailure.
func IsDependencyFailure(err error) bool {
	var v *DependencyFailure
	return errors.As(err, &v)
}
