// Package errors provides structured error types for cell-tracer.
//
// Every failure a caller is expected to handle carries a machine-readable
// Code so the CLI can map it to a message and tests can assert on it without
// string matching:
//
//	if err := params.Validate(); errors.Is(err, errors.ErrCodeInvalidConfiguration) {
//	    // bad thresholds
//	}
//
// Wrap keeps the underlying cause reachable through the standard library's
// errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	// ErrCodeInvalidConfiguration marks parameters that would silently
	// produce no candidates or no rows (group size < 2, distance <= 0, ...).
	ErrCodeInvalidConfiguration Code = "INVALID_CONFIGURATION"

	// ErrCodeUnknownMacroType marks a component macro with no canonical label.
	ErrCodeUnknownMacroType Code = "UNKNOWN_MACRO_TYPE"

	// ErrCodeClassifierUnavailable marks a model that is missing or unusable.
	ErrCodeClassifierUnavailable Code = "CLASSIFIER_UNAVAILABLE"

	// ErrCodeInvalidInput marks entities outside the layout bounds and
	// malformed caller input.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeInvalidLayout marks a layout document that cannot be read.
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"

	// ErrCodeInternal marks unexpected failures.
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
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
