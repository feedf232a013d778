// Package errors provides structured error types for sisugv.
//
// Every failure that ends an invocation carries one of three codes:
//   - FETCH_ERROR: the curriculum API could not be reached, the programme
//     is unknown, or a response could not be decoded
//   - CONFIG_ERROR: an annotation file, config file or flag is malformed
//   - IO_ERROR: the output could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "invalid year: %d", year)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "fetch programme %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the three failure kinds.
const (
	ErrCodeFetch  Code = "FETCH_ERROR"
	ErrCodeConfig Code = "CONFIG_ERROR"
	ErrCodeIO     Code = "IO_ERROR"
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
// If cause already carries a code, the outer code still wins.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Fetch wraps cause as a FETCH_ERROR. Errors that already carry a code are
// returned unchanged.
func Fetch(cause error, format string, args ...any) error {
	return ensure(ErrCodeFetch, cause, format, args...)
}

// Config wraps cause as a CONFIG_ERROR. Errors that already carry a code are
// returned unchanged.
func Config(cause error, format string, args ...any) error {
	return ensure(ErrCodeConfig, cause, format, args...)
}

// IO wraps cause as an IO_ERROR. Errors that already carry a code are
// returned unchanged.
func IO(cause error, format string, args ...any) error {
	return ensure(ErrCodeIO, cause, format, args...)
}

func ensure(code Code, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	if GetCode(cause) != "" {
		return cause
	}
	return Wrap(code, cause, format, args...)
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
