// Package errors provides structured error types for the familytree application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library packages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly messages that can be shown directly in a prompt
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_*: Required input absent
//   - NOT_FOUND / FILE_NOT_FOUND: Resource not found
//   - IO_ERROR: Persistence failures
//
// # Field Errors
//
// Validation failures on a single member field are reported as [*FieldError],
// which carries the field name, a human-readable reason and, for closed
// vocabularies, the allowed values:
//
//	err := errors.Invalid("gender", nil, "unknown gender %q", v).WithAllowed(genders...)
//	if fe, ok := errors.AsField(err); ok {
//	    fmt.Println(fe.Field, fe.Reason)
//	}
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "member %d not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing member
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "save %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidField        Code = "INVALID_FIELD"
	ErrCodeMissingField        Code = "MISSING_FIELD"
	ErrCodeInvalidRelationship Code = "INVALID_RELATIONSHIP"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Persisted data errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"
	ErrCodeIO            Code = "IO_ERROR"

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

// FieldError reports an invalid or missing value for one named field.
// It is the ValidationError of the member model: every create or update
// failure carries the offending field and a reason suitable for display.
type FieldError struct {
	Code    Code     // ErrCodeInvalidField or ErrCodeMissingField
	Field   string   // Field name as persisted (e.g. "gender", "father")
	Reason  string   // Human-readable reason
	Allowed []string // Allowed values for closed vocabularies (optional)
	Cause   error    // Underlying sentinel or parse error (optional)
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Reason)
	if len(e.Allowed) > 0 {
		msg += " (allowed: " + strings.Join(e.Allowed, ", ") + ")"
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *FieldError) Unwrap() error {
	return e.Cause
}

// WithAllowed attaches the allowed values of a closed vocabulary.
func (e *FieldError) WithAllowed(values ...string) *FieldError {
	e.Allowed = values
	return e
}

// Invalid creates a FieldError for a value that failed validation.
func Invalid(field string, cause error, format string, args ...any) *FieldError {
	return &FieldError{
		Code:   ErrCodeInvalidField,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
		Cause:  cause,
	}
}

// Missing creates a FieldError for an absent required field.
func Missing(field string) *FieldError {
	return &FieldError{
		Code:   ErrCodeMissingField,
		Field:  field,
		Reason: "is required",
	}
}

// AsField extracts the first *FieldError in err's chain.
func AsField(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *FieldError with a
// matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is neither an *Error nor a *FieldError.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed
// by the user message of its cause.
// For *FieldError types, returns "field reason" plus any allowed values.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		msg := fe.Field + " " + fe.Reason
		if len(fe.Allowed) > 0 {
			msg += " (allowed: " + strings.Join(fe.Allowed, ", ") + ")"
		}
		return msg
	}
	return err.Error()
}
