// Package apperrors maps application failures onto HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for logging and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeUnauthorized indicates missing or wrong credentials (HTTP 401)
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates an upstream dependency failed (HTTP 502)
	TypeExternal ErrorType = "external"
)

// Error is a structured error with type, client-facing message and cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	// Status overrides the status derived from Type when non-zero.
	Status int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for this error type.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Response is the JSON body sent to clients.
type Response struct {
	Detail string `json:"detail"`
}

// ToResponse converts an Error to its JSON body.
func (e *Error) ToResponse() Response {
	return Response{Detail: e.Message}
}

// Validation creates a 400 error.
func Validation(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return &Error{Type: TypeUnauthorized, Message: message}
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// Internal creates a 500 error.
func Internal(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// External creates a 502 error.
func External(message string, cause error) *Error {
	return &Error{Type: TypeExternal, Message: message, Cause: cause}
}

// AsStructured converts any error into an *Error, wrapping unknown errors as internal.
func AsStructured(err error) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}

	return Internal("internal server error", err)
}

// Is reports whether err carries the given type.
func Is(err error, t ErrorType) bool {
	var structured *Error
	return errors.As(err, &structured) && structured.Type == t
}
