// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrPortfolioNotFound   = errors.New("portfolio file not found")
	ErrUnsupportedFormat   = errors.New("unsupported portfolio format")
	ErrDataNotFound        = errors.New("data not found")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrNoOptimumFound      = errors.New("search yielded no optimum")
	ErrMissingScore        = errors.New("stats missing efficiency_score")
	ErrRegistryUnavailable = errors.New("error registry unavailable")
)

// ValidationError represents a malformed search parameter. Validation
// failures are fatal: they surface synchronously and are never recovered.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// EvaluationError wraps a failure from the load/align or scoring step for a
// single candidate. Recoverable: the search logs it, reports it, skips the
// candidate, and continues.
type EvaluationError struct {
	Tickers []string
	Size    int
	Err     error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("candidate evaluation error [%s] (size %d): %v",
		strings.Join(e.Tickers, ","), e.Size, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(tickers []string, size int, err error) *EvaluationError {
	return &EvaluationError{
		Tickers: tickers,
		Size:    size,
		Err:     err,
	}
}

// PersistenceError represents an I/O failure while saving a report. Fatal
// for the save step: logged with path context and re-raised.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error [%s] %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError.
func NewPersistenceError(op, path string, err error) *PersistenceError {
	return &PersistenceError{
		Path: path,
		Op:   op,
		Err:  err,
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
