// Package errors defines stable error codes for stubdoc failure modes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigError indicates the module introspection data or the
	// docstring map source could not be loaded
	ConfigError ErrorCode = "CONFIG_ERROR"
	// ParseError indicates stub source text is not valid Python
	ParseError ErrorCode = "PARSE_ERROR"
	// SnapshotMissing indicates no docstring snapshot exists for the
	// requested module version
	SnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
	// FormatterFailed indicates an external formatter command in the
	// pre/post pipeline exited non-zero
	FormatterFailed ErrorCode = "FORMATTER_FAILED"
	// WriteFailed indicates the rewritten stub could not be written
	WriteFailed ErrorCode = "WRITE_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// StubError represents a stubdoc error with code and message
type StubError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new StubError
func New(code ErrorCode, message string, cause error) *StubError {
	return &StubError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new StubError with a formatted message
func Newf(code ErrorCode, cause error, format string, args ...interface{}) *StubError {
	return New(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface
func (e *StubError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StubError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from err, or InternalError if err is
// not a StubError.
func CodeOf(err error) ErrorCode {
	var se *StubError
	if errors.As(err, &se) {
		return se.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var se *StubError
	return errors.As(err, &se) && se.Code == code
}
