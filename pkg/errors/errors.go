// Package errors provides structured error types for the QuadPlan engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - STRUCTURE_*: Structural violations (protected level, last wall)
//   - PACKING_*: Unit-slot packing violations
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownModel, "unknown frame model: %s", model)
//	if errors.Is(err, errors.ErrCodeUnknownModel) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save project %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeUnknownModel  Code = "INVALID_FRAME_MODEL"
	ErrCodeInvalidColumn Code = "INVALID_COLUMN"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLevelNotFound Code = "LEVEL_NOT_FOUND"
	ErrCodeWallNotFound  Code = "WALL_NOT_FOUND"
	ErrCodeFrameNotFound Code = "FRAME_NOT_FOUND"
	ErrCodeDoorNotFound  Code = "DOOR_NOT_FOUND"

	// Structural violations. The operation is rejected and the state is
	// left exactly as it was.
	ErrCodeLevelProtected Code = "STRUCTURE_LEVEL_PROTECTED"
	ErrCodeLastLevel      Code = "STRUCTURE_LAST_LEVEL"
	ErrCodeLastWall       Code = "STRUCTURE_LAST_WALL"

	// Packing violations
	ErrCodeSlotOverlap  Code = "PACKING_SLOT_OVERLAP"
	ErrCodeOutOfRange   Code = "PACKING_OUT_OF_RANGE"
	ErrCodeUnitMismatch Code = "PACKING_UNIT_MISMATCH"

	// Save-readiness violations
	ErrCodeIncompleteLayout Code = "INCOMPLETE_LAYOUT"

	// Internal errors
	ErrCodeStorage  Code = "STORAGE_ERROR"
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

// IsStructural reports whether err is a structural violation
// (protected level, last wall, last level).
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeLevelProtected, ErrCodeLastLevel, ErrCodeLastWall:
		return true
	}
	return false
}

// IsPacking reports whether err is a unit-packing violation.
func IsPacking(err error) bool {
	switch GetCode(err) {
	case ErrCodeSlotOverlap, ErrCodeOutOfRange, ErrCodeUnitMismatch:
		return true
	}
	return false
}
