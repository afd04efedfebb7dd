package apperrors

import (
	"errors"   // errors.As for unwrapping
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"sort"     // Stable field ordering in messages
	"strings"  // Joining field messages
)

// Kind classifies an application error
type Kind string

const (
	KindValidation   Kind = "validation_error"      // Missing or malformed field
	KindDuplicateKey Kind = "duplicate_key"         // Unique constraint violation
	KindUnauthorized Kind = "unauthorized"          // Missing token or wrong credentials
	KindForbidden    Kind = "forbidden"             // Invalid/expired token or foreign account
	KindNotFound     Kind = "not_found"             // Entity absent
	KindConnection   Kind = "connection_error"      // Database unreachable after retries
	KindUnclassified Kind = "internal_server_error" // Anything else
)

// Error is the error type shared by stores, services and handlers
type Error struct {
	Kind    Kind              // Error class, drives the HTTP status
	Message string            // Human-readable message
	Details string            // Optional underlying cause for the client
	Fields  map[string]string // Field-level validation messages
	Err     error             // Wrapped cause
}

// Error returns the message, with the cause when one is wrapped
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for the error's kind
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicateKey:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a validation error with optional field messages
func Validation(msg string, fields map[string]string) *Error {
	e := &Error{Kind: KindValidation, Message: msg, Fields: fields}
	if len(fields) > 0 {
		e.Details = joinFields(fields)
	}
	return e
}

// Duplicate builds a duplicate-key error
func Duplicate(msg string, err error) *Error {
	return &Error{Kind: KindDuplicateKey, Message: msg, Err: err}
}

// Unauthorized builds a 401 error
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden builds a 403 error
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound builds a not-found error
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Connection builds a connection error wrapping the last failure
func Connection(msg string, err error) *Error {
	return &Error{Kind: KindConnection, Message: msg, Err: err}
}

// Wrap builds an unclassified error that keeps the cause as details
func Wrap(msg string, err error) *Error {
	e := &Error{Kind: KindUnclassified, Message: msg, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// WithDetails sets the client-facing details and returns the same error
func (e *Error) WithDetails(format string, args ...any) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// As extracts an *Error from err
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindUnclassified when err is not an *Error
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnclassified
}

// Is reports whether err is an *Error of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps any error to an HTTP status code
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, ", ")
}
