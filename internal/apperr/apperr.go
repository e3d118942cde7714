// Package apperr defines the error kinds shared by every domain service.
//
// Domains declare their own sentinel errors with one of the constructors
// below, so callers can branch either on the exact sentinel
// (categorydomain.ErrInUse) or on the kind (apperr.ErrInUse).
package apperr

import "errors"

type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindInUse        Kind = "in_use"
	KindLastResource Kind = "last_resource"
)

// Error is a coded error of a given kind. Field names the offending input
// for validation errors and is empty otherwise.
type Error struct {
	Kind  Kind
	Code  string
	Field string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return string(e.Kind)
	}
	return e.Code
}

// Is matches kind sentinels (no code) against any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInUse        = &Error{Kind: KindInUse}
	ErrLastResource = &Error{Kind: KindLastResource}
)

func Validation(field, code string) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field}
}

func NotFound(code string) *Error {
	return &Error{Kind: KindNotFound, Code: code}
}

func InUse(code string) *Error {
	return &Error{Kind: KindInUse, Code: code}
}

func LastResource(code string) *Error {
	return &Error{Kind: KindLastResource, Code: code}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// carries none (store and encoding failures).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
