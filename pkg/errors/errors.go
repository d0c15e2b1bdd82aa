// Package errors provides structured error types for feedtree.
//
// Every failure the catalog reports to its callers carries a [Code]. The
// HTTP API turns the code into a kebab-case error kind and a status, the
// CLI turns it into a message, and tests match on it with [Is].
//
// # Error Codes
//
//   - UNREACHABLE_URL, UNREACHABLE_FEED_URL: discovery failures
//   - OPML_NOT_FOUND: no outline exists yet in the repository
//   - CATEGORY_PATH_INVALID, FEED_NOT_FOUND_IN_PATH, FEED_NOT_FOUND,
//     ENTRY_NOT_FOUND: resolution misses, fixable by the caller
//   - INVALID_INPUT: malformed caller input
//   - INTERNAL_ERROR: unclassified I/O failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFeedNotFoundInPath, "feed %s is not in %q", id, path)
//	if errors.Is(err, errors.ErrCodeFeedNotFoundInPath) {
//	    // Handle the miss
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnreachableURL, origErr, "cannot connect to %s", url)
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
	// Discovery errors
	ErrCodeUnreachableURL     Code = "UNREACHABLE_URL"
	ErrCodeUnreachableFeedURL Code = "UNREACHABLE_FEED_URL"

	// Catalog bootstrap
	ErrCodeOpmlNotFound Code = "OPML_NOT_FOUND"

	// Resolution misses
	ErrCodeCategoryPathInvalid Code = "CATEGORY_PATH_INVALID"
	ErrCodeFeedNotFoundInPath  Code = "FEED_NOT_FOUND_IN_PATH"
	ErrCodeFeedNotFound        Code = "FEED_NOT_FOUND"
	ErrCodeEntryNotFound       Code = "ENTRY_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Kind returns the wire name of the code: lowercase words joined by
// hyphens, e.g. "category-path-invalid".
func (c Code) Kind() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), "_", "-")
}

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

// Internal wraps an unclassified failure. Errors that already carry a code
// are returned unchanged so the original classification survives.
func Internal(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	return Wrap(ErrCodeInternal, err, format, args...)
}
