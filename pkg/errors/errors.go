// Package errors provides structured error types for the stabilizer.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can map
// failures consistently:
//   - INVALID_*: malformed user input (object files, parameter files)
//   - PRECONDITION_FAILED: slicer output that violates the analysis contract
//   - CANCELLED: the analysis was interrupted between layers
//   - INTERNAL_ERROR: anything unexpected
//
// The numeric core never returns errors; missing data there maps to
// documented sentinel values instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePrecondition, "layer %d: entity has %d points", i, n)
//	if errors.Is(err, errors.ErrCodePrecondition) {
//	    // reject the input, do not retry
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Upstream contract violations
	ErrCodePrecondition Code = "PRECONDITION_FAILED"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Control flow
	ErrCodeCancelled Code = "CANCELLED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Context cancellation maps to ErrCodeCancelled even when unwrapped.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeCancelled
	}
	return ""
}

// Cancelled wraps a context error. It returns nil when err is nil.
func Cancelled(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(ErrCodeCancelled, err, format, args...)
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
