// Package errors provides typed errors for the application
package errors

import (
	"errors"
	"fmt"
)

// baseError is the base implementation for all error types
type baseError struct {
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ContextError is returned when a command is used in the wrong kind of chat
type ContextError struct {
	baseError
}

func NewContextError(message string) *ContextError {
	return &ContextError{baseError{message: message}}
}

// PermissionError represents missing rights (bot posting rights, session admin rights)
type PermissionError struct {
	baseError
}

func NewPermissionError(message string) *PermissionError {
	return &PermissionError{baseError{message: message}}
}

func WrapPermissionError(message string, cause error) *PermissionError {
	return &PermissionError{baseError{message: message, cause: cause}}
}

// NotFoundError represents an unresolvable entity or missing record
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{baseError{message: message}}
}

func NewNotFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{baseError{message: fmt.Sprintf(format, args...)}}
}

func WrapNotFoundError(message string, cause error) *NotFoundError {
	return &NotFoundError{baseError{message: message, cause: cause}}
}

// NetworkError represents a transport failure talking to Telegram
type NetworkError struct {
	baseError
}

func NewNetworkError(message string) *NetworkError {
	return &NetworkError{baseError{message: message}}
}

func WrapNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{baseError{message: message, cause: cause}}
}

// PersistenceError represents an unreachable or failing store
type PersistenceError struct {
	baseError
}

func NewPersistenceError(message string) *PersistenceError {
	return &PersistenceError{baseError{message: message}}
}

func WrapPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{baseError{message: message, cause: cause}}
}

// ValidationError represents invalid input or configuration
type ValidationError struct {
	baseError
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError{message: message}}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError{message: fmt.Sprintf(format, args...)}}
}

// InternalError represents an unexpected failure
type InternalError struct {
	baseError
}

func NewInternalError(message string) *InternalError {
	return &InternalError{baseError{message: message}}
}

func WrapInternalError(message string, cause error) *InternalError {
	return &InternalError{baseError{message: message, cause: cause}}
}

// IsContextError checks if error is a ContextError
func IsContextError(err error) bool {
	var target *ContextError
	return errors.As(err, &target)
}

// IsPermissionError checks if error is a PermissionError
func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsNetworkError checks if error is a NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsPersistenceError checks if error is a PersistenceError
func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// Kind returns a short label for metrics and logs
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsContextError(err):
		return "context"
	case IsPermissionError(err):
		return "permission"
	case IsNotFoundError(err):
		return "not_found"
	case IsNetworkError(err):
		return "network"
	case IsPersistenceError(err):
		return "persistence"
	case IsValidationError(err):
		return "validation"
	default:
		return "internal"
	}
}
