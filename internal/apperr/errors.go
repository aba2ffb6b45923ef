// Package apperr defines the typed errors returned by services and mapped to
// HTTP status codes by pkg/response.
package apperr

import (
	"errors"
	"net/http"
)

// HTTPError is implemented by every error that carries its own status code.
type HTTPError interface {
	error
	StatusCode() int
}

// ValidationError is returned when caller input is missing or malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// AuthError is returned for authentication and ownership failures.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string   { return e.Message }
func (e *AuthError) StatusCode() int { return http.StatusUnauthorized }

// NotFoundError is returned when a referenced resource is absent or inactive.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return e.Message }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ConflictError is returned when a write collides with existing state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// DependencyError wraps a failure of the database, the meeting provider or
// any other collaborator. Only Message is shown to clients.
type DependencyError struct {
	Message string
	Cause   error
}

func (e *DependencyError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *DependencyError) StatusCode() int { return http.StatusInternalServerError }
func (e *DependencyError) Unwrap() error   { return e.Cause }

// Validation returns a ValidationError.
func Validation(msg string) error { return &ValidationError{Message: msg} }

// Auth returns an AuthError.
func Auth(msg string) error { return &AuthError{Message: msg} }

// NotFound returns a NotFoundError.
func NotFound(msg string) error { return &NotFoundError{Message: msg} }

// Conflict returns a ConflictError.
func Conflict(msg string) error { return &ConflictError{Message: msg} }

// Dependency returns a DependencyError wrapping cause.
func Dependency(msg string, cause error) error {
	return &DependencyError{Message: msg, Cause: cause}
}

// Status returns the HTTP status carried by err, or 500.
func Status(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to expose to a client.
func PublicMessage(err error) string {
	var dep *DependencyError
	if errors.As(err, &dep) {
		return dep.Message
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.Error()
	}
	return "Internal server error"
}
