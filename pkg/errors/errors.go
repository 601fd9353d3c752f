// Package errors provides custom error types for the livingset system.
// These errors let callers decide, per data type, whether a failure is a
// recoverable skip, an overridable validation failure, a persistence failure
// or a fatal configuration problem.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the livingset system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingInput indicates that a latest snapshot is absent for a data type
	ErrMissingInput = errors.New("missing input")

	// ErrPersist indicates that writing merged output or a backup failed
	ErrPersist = errors.New("persist failure")

	// ErrConfig indicates an invalid invocation or configuration
	ErrConfig = errors.New("configuration error")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// MissingInputError reports that the latest snapshot for a data type does not exist.
// It is a skip, not a failure.
type MissingInputError struct {
	DataType string
	Path     string
}

// Error implements the error interface
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("latest snapshot for %s not found at %s", e.DataType, e.Path)
}

// Is implements errors.Is support
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput || target == ErrNotFound
}

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DatasetValidationError aborts a merge because a loaded dataset failed its checks.
type DatasetValidationError struct {
	DataType string
	Role     string // "living" or "latest"
	Issues   []string
}

// Error implements the error interface
func (e *DatasetValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%s (%s) failed validation", e.DataType, e.Role)
	}
	return fmt.Sprintf("%s (%s) failed validation: %s", e.DataType, e.Role, strings.Join(e.Issues, "; "))
}

// Is implements errors.Is support
func (e *DatasetValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PersistError represents a failed write of merged output, a backup or a quarantine file.
type PersistError struct {
	DataType string
	Path     string
	Op       string // "backup", "write", "quarantine", "restore"
	Err      error
}

// Error implements the error interface
func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s failed for %s at %s: %v", e.Op, e.DataType, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistError) Is(target error) bool {
	return target == ErrPersist
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml", "date"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "copy", "sync"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingInput checks if an error means the latest snapshot was absent
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPersistFailure checks if an error came from writing output
func IsPersistFailure(err error) bool {
	return errors.Is(err, ErrPersist)
}

// IsConfigError checks if an error is fatal to the whole invocation
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// As is errors.As, re-exported so callers need only one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is, re-exported so callers need only one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join is errors.Join, re-exported so callers need only one errors import.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapPersist wraps an error as a PersistError
func WrapPersist(dataType, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistError{DataType: dataType, Path: path, Op: op, Err: err}
}
