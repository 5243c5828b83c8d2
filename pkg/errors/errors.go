// Package errors provides structured error types for floorgeo.
//
// Every failure the pipeline can surface carries a machine-readable [Code], so
// the CLI and the HTTP server can react to the kind of failure without
// matching on message text.
//
// # Error Codes
//
// Geometry errors describe input the transform pipeline cannot process:
//   - DEGENERATE_EDGE: both endpoints of an edge are the same coordinate
//   - EMPTY_GRAPH: an operation needs at least one node
//   - DEGENERATE_CORRESPONDENCE: a two-point fit would divide by zero
//   - CONTROL_POINT_NOT_FOUND: no node matches a configured control point
//   - MALFORMED_INPUT_RECORD: an input row is missing or has non-numeric fields
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDegenerateEdge, "edge (%g, %g) has coinciding endpoints", x, y)
//	if errors.Is(err, errors.ErrCodeDegenerateEdge) {
//	    // skip the row
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometry errors
	ErrCodeDegenerateEdge           Code = "DEGENERATE_EDGE"
	ErrCodeEmptyGraph               Code = "EMPTY_GRAPH"
	ErrCodeDegenerateCorrespondence Code = "DEGENERATE_CORRESPONDENCE"
	ErrCodeControlPointNotFound     Code = "CONTROL_POINT_NOT_FOUND"
	ErrCodeMalformedRecord          Code = "MALFORMED_INPUT_RECORD"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidLocation Code = "INVALID_LOCATION"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
// It unwraps the error chain looking for the outermost *Error and compares its code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
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
