// Package errors provides structured error types for the simchain application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, TUI, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// Codes are grouped into three families that mirror the failure modes of
// the layout core and its collaborators:
//   - Structural: a malformed production-chain graph (empty layer,
//     duplicate ID, node that is neither sublayer nor terminal list).
//     Fatal to the layout call; never retried.
//   - Domain: invalid numeric input (canvas with non-positive dimensions,
//     gradient value outside its range, inverted range bounds).
//   - Lookup: a resource ID present in the graph has no name or
//     profitability entry. Surfaced, never silently defaulted.
//
// Transport codes (NETWORK_ERROR, NOT_FOUND, ...) belong to the remote
// market data provider and are retryable at that layer only.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "resource %d appears twice", id)
//	if errors.IsStructural(err) {
//	    // Reject the graph
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors: malformed production-chain graphs.
	ErrCodeEmptyLayer   Code = "EMPTY_LAYER"
	ErrCodeDuplicateID  Code = "DUPLICATE_ID"
	ErrCodeInvalidNode  Code = "INVALID_NODE"
	ErrCodeInvalidGraph Code = "INVALID_GRAPH"

	// Domain errors: invalid numeric inputs.
	ErrCodeInvalidCanvas   Code = "INVALID_CANVAS"
	ErrCodeValueOutOfRange Code = "VALUE_OUT_OF_RANGE"
	ErrCodeInvalidRange    Code = "INVALID_RANGE"

	// Lookup errors: graph IDs missing from external lookups.
	ErrCodeMissingName   Code = "MISSING_NAME"
	ErrCodeMissingProfit Code = "MISSING_PROFIT"

	// Transport errors: remote market data provider.
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// IsStructural reports whether err carries a structural error code.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyLayer, ErrCodeDuplicateID, ErrCodeInvalidNode, ErrCodeInvalidGraph:
		return true
	}
	return false
}

// IsDomain reports whether err carries a domain error code.
func IsDomain(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidCanvas, ErrCodeValueOutOfRange, ErrCodeInvalidRange:
		return true
	}
	return false
}

// IsLookup reports whether err carries a lookup error code.
func IsLookup(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingName, ErrCodeMissingProfit:
		return true
	}
	return false
}
