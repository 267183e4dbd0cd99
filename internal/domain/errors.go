// Package domain defines domain-specific errors.
// These errors represent visualizer failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that components can return.
var (
	// ErrElementNotFound is returned when a visualizer target cannot be resolved to a host.
	ErrElementNotFound = errors.New("element not found")

	// ErrInvalidResolution is returned when an analysis tap is created with an unsupported size.
	ErrInvalidResolution = errors.New("invalid analysis resolution")

	// ErrSourceClosed is returned when an operation is attempted on a closed audio source.
	ErrSourceClosed = errors.New("audio source closed")

	// ErrSourceRunning is returned when an audio source is started twice or
	// closed while it is still running.
	ErrSourceRunning = errors.New("audio source already running")
)

// ElementNotFoundError is returned by visualizer construction when the target
// selector or reference does not resolve to a host element.
type ElementNotFoundError struct {
	Target string // Selector that failed to resolve (empty for a nil reference)
}

// Error implements the error interface.
func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %q not found", e.Target)
}

// Unwrap returns ErrElementNotFound so callers can use errors.Is.
func (e *ElementNotFoundError) Unwrap() error {
	return ErrElementNotFound
}

// NewElementNotFoundError creates a new ElementNotFoundError.
func NewElementNotFoundError(target string) *ElementNotFoundError {
	return &ElementNotFoundError{Target: target}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
	Err     error       // Sentinel the failure belongs to (if any)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// AudioSourceError represents an error from an audio source (file, device, generator).
// This wraps low-level audio library errors with additional context.
type AudioSourceError struct {
	Op      string // Operation that failed (e.g., "open", "decode", "start")
	Source  string // Source identifier (file path or device name)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioSourceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("audio source %s failed for '%s': %s", e.Op, e.Source, e.Message)
	}
	return fmt.Sprintf("audio source %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioSourceError) Unwrap() error {
	return e.Err
}

// NewAudioSourceError creates a new AudioSourceError.
func NewAudioSourceError(op, source, message string, err error) *AudioSourceError {
	return &AudioSourceError{
		Op:      op,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "preferences")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}
