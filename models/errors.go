package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrConcurrentModification = errors.New("order was modified concurrently, please retry")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// ValidationError reports malformed input before anything is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatusError is returned when a status transition is rejected.
// From is empty when the target is outside the status set, and set when a
// workflow policy refused the move.
type InvalidStatusError struct {
	Status string
	From   string
}

func (e *InvalidStatusError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.Status)
	}
	return fmt.Sprintf("invalid status: %s", e.Status)
}

// NotFoundError wraps ErrNotFound with the entity and key that were looked up.
type NotFoundError struct {
	Entity string
	Key    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(entity string, key interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// LookupError means one identity path of an order lookup failed; the whole
// lookup is abandoned with it.
type LookupError struct {
	Path string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("order lookup failed on %s path: %v", e.Path, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ConflictError reports a uniqueness violation such as a taken email.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
