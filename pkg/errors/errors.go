package errors

import (
	"errors"
	"fmt"
)

// ScriptError is the interface implemented by all errors that surface as
// script-catchable failures. The core only tags failures with a stable kind;
// mapping a kind to a concrete constructor-named error object is the host
// evaluator's job.
type ScriptError interface {
	error         // Embed the standard error interface
	Kind() string // e.g., "Type", "Range"
	// Message returns the specific error message without the kind prefix.
	// This might be useful if the caller wants to format the error differently.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// TypeError represents a TypeError-class failure: an incompatible property
// redefinition, a non-callable callee, or a value that cannot be coerced.
type TypeError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("TypeError: %s", e.Msg)
}
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// RangeError represents a RangeError-class failure. Nothing in the core
// raises one directly (length coercion failures fold into TypeError), but
// hosts building constructors on top of the core do.
type RangeError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("RangeError: %s", e.Msg)
}
func (e *RangeError) Kind() string    { return "Range" }
func (e *RangeError) Message() string { return e.Msg }
func (e *RangeError) Unwrap() error   { return e.Cause }
func (e *RangeError) CausedBy(cause error) *RangeError {
	e.Cause = cause
	return e
}

// --- Helpers for creating and classifying errors ---

// NewTypeError creates a TypeError with a formatted message.
func NewTypeError(format string, args ...interface{}) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

// NewRangeError creates a RangeError with a formatted message.
func NewRangeError(format string, args ...interface{}) *RangeError {
	return &RangeError{Msg: fmt.Sprintf(format, args...)}
}

// IsTypeError reports whether err is (or wraps) a TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// IsRangeError reports whether err is (or wraps) a RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

// KindOf returns the script error kind of err, or "" if err is not a
// ScriptError.
func KindOf(err error) string {
	var se ScriptError
	if errors.As(err, &se) {
		return se.Kind()
	}
	return ""
}
