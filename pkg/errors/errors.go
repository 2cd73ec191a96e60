// Package errors provides structured error types for cargo-ebuild.
//
// Every fatal condition of a run (manifest lookup, dependency resolution,
// artifact writing) is reported as an [*Error] carrying a machine-readable
// [Code]. The CLI maps these to a single human-readable line on stderr.
//
// # Error Codes
//
//   - MANIFEST_NOT_FOUND, INVALID_MANIFEST: locating or decoding Cargo.toml
//   - RESOLUTION_FAILED, MISSING_ROOT, TIMEOUT: the cargo resolution step
//   - WRITE_FAILED: creating or writing the ebuild file
//   - NETWORK_ERROR, NOT_FOUND: registry lookups (crates.io)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingRoot, "no root package in %s", path)
//	if errors.Is(err, errors.ErrCodeMissingRoot) {
//	    // virtual workspace manifest
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailed, origErr, "failed to create ebuild %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeManifestNotFound Code = "MANIFEST_NOT_FOUND"

	// Resolution errors
	ErrCodeResolution  Code = "RESOLUTION_FAILED"
	ErrCodeMissingRoot Code = "MISSING_ROOT"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Output errors
	ErrCodeWriteFailed Code = "WRITE_FAILED"

	// Registry errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

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
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a single-line message for the error suitable for
// printing at the process boundary. For *Error types the code prefix is
// dropped and the cause, if any, is appended. Directly nested *Error causes
// are rendered the same way.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			if inner, ok := e.Cause.(*Error); ok {
				return e.Message + ": " + UserMessage(inner)
			}
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
