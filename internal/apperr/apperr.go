// Package apperr defines the error taxonomy shared by services and handlers.
// Services return these; the API layer owns the mapping to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindValidation marks user-correctable input errors.
	KindValidation Kind = iota + 1
	// KindConflict marks uniqueness violations surfaced from the store.
	KindConflict
	// KindNotFound marks references to entities that do not exist.
	KindNotFound
	// KindForbidden marks mutations by an actor who is not the owner.
	KindForbidden
)

// Error is a structured, field-scoped application error.
type Error struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func Validation(field, reason string) *Error {
	return &Error{Kind: KindValidation, Field: field, Reason: reason}
}

func Conflict(reason string) *Error {
	return &Error{Kind: KindConflict, Reason: reason}
}

func NotFound(reason string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason}
}

// KindOf returns the kind of err, or 0 for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }
