// Package domainerrors carries coded, kind-tagged errors across module
// boundaries.
//
// A Code is the broad category a caller maps to a response (validation,
// conflict, forbidden...). A Kind is the precise failure within a use case
// (empty_name, limit_reached...). errors.Is matches two *Error values when
// their Kind matches, or when both have no Kind and their Code matches, so
// packages can export sentinel values and compare against them.
package domainerrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeUnauthorized       Code = "unauthorized"
	CodeLocked             Code = "locked"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal"
)

// Error is the concrete domain error.
type Error struct {
	Code    Code
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, ErrEmptyName) works for
// sentinels and for freshly built errors with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != "" || t.Kind != "" {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds an error with a code and a message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// NewKind builds a named failure kind. Modules declare their closed set of
// kinds with it at package level.
func NewKind(code Code, kind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// WrapKind tags err with a declared kind, keeping err in the chain. Use it
// when an adapter failure should surface as a named use case failure.
func WrapKind(kind *Error, err error) *Error {
	return &Error{Code: kind.Code, Kind: kind.Kind, Message: kind.Message, Err: err}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the code of the outermost *Error, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// KindOf returns the kind of the outermost kind-tagged *Error, or "".
func KindOf(err error) string {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return ""
		}
		if de.Kind != "" {
			return de.Kind
		}
		err = de.Err
	}
	return ""
}
