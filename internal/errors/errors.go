// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound      = errors.New("trade not found")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrAdjustmentNotFound = errors.New("adjustment not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDataNotFound       = errors.New("data not found")
	ErrDatabaseError      = errors.New("database error")
	ErrInputValidation    = errors.New("input validation failed")
)

// DataAccessError represents a failure to read or write the journal's
// backing store. It is the only error kind the engines surface as a hard
// failure; bad or partial records degrade to defaults instead.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data access error [%s]: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("data access error [%s]", e.Op)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// NewDataAccessError creates a new DataAccessError.
func NewDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{
		Op:  op,
		Err: err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ImportError represents a failure while importing external trade data.
type ImportError struct {
	Source string
	Line   int
	Err    error
}

func (e *ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("import error [%s] line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("import error [%s]: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(source string, line int, err error) *ImportError {
	return &ImportError{
		Source: source,
		Line:   line,
		Err:    err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
