// internal/domain/apperr/apperr.go

// Package apperr defines the error taxonomy shared by stores, services,
// and HTTP handlers. Sentinel errors support errors.Is checks; the typed
// errors carry detail and unwrap to their sentinel.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrDispatch      = errors.New("dispatch failed")
)

// ValidationError reports a malformed input field. No mutation has
// occurred when one is returned; the caller can correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError for the given field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports insufficient role or membership. It carries
// no information about the protected contents.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

func (e *AuthorizationError) Unwrap() error { return ErrAuthorization }

// Authorization builds an AuthorizationError.
func Authorization(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// NotFoundError reports a dangling reference to an entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError for the named entity.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// ConflictError reports a concurrent mutation collision. The operation
// rolled back fully and is safe to retry.
type ConflictError struct {
	Reason string
	Err    error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflict: %s: %v", e.Reason, e.Err)
	}
	return "conflict: " + e.Reason
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict builds a ConflictError wrapping cause (which may be nil).
func Conflict(reason string, cause error) error {
	return &ConflictError{Reason: reason, Err: cause}
}
