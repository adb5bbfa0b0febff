// Package errors augments the standard errors package
// with an Error type that supports wrapping a cause without
// resorting to fmt.Errorf("%w", err) string templates.
//
// Sentinel errors exported by the various status packages in this
// repository are instances of Error, so callers can both compare them
// with errors.Is and attach a lower-level cause with Wrap.
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New builds a new Error with a fixed message
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is an error with an optional wrapped cause.
//
// Unlike fmt.Errorf based wrapping, the message of the wrapping error
// is stable: the cause is reported by Unwrap, not by string concatenation.
type Error struct {
	msg  string
	err  error
	base *Error
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap the cause, if any
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a cause under this error. A fresh Error is returned, so sentinel
// errors may be wrapped concurrently without mutation. The wrapped error
// still matches the original sentinel under errors.Is.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, base: e.root()}
}

// WrapMessage wraps a cause built from a formatted message
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}
	return e
}

// Is reports whether this error, the sentinel it was wrapped from, or its
// cause matches target
func (e *Error) Is(target error) bool {
	return e == target || e.root() == target || stderr.Is(e.err, target)
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
