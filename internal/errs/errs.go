package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a caller-visible failure
type Kind string

const (
	KindInvalidData             Kind = "invalid_data"
	KindResourceNotFound        Kind = "resource_not_found"
	KindResourceAlreadyExists   Kind = "resource_already_exists"
	KindStaleState              Kind = "stale_state"
	KindLinkedToAnotherResource Kind = "linked_to_another_resource"
)

// Error is a recoverable catalog failure. Details carries the offending values.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Details)
}

// With adds a detail value and returns the same error
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidData reports a value that fails a structural or bounds check
func InvalidData(format string, args ...any) *Error {
	return newError(KindInvalidData, format, args...)
}

// NotFound reports a missing (or inactive) referenced entity
func NotFound(format string, args ...any) *Error {
	return newError(KindResourceNotFound, format, args...)
}

// AlreadyExists reports a collision with an existing unique value
func AlreadyExists(format string, args ...any) *Error {
	return newError(KindResourceAlreadyExists, format, args...)
}

// StaleState reports a caller assumption that no longer matches stored state
func StaleState(format string, args ...any) *Error {
	return newError(KindStaleState, format, args...)
}

// Linked reports a delete blocked by dependent resources
func Linked(format string, args ...any) *Error {
	return newError(KindLinkedToAnotherResource, format, args...)
}

// KindOf returns the kind of err, or "" when err is not a catalog error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is a catalog error of the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
