// Package apperr carries the error taxonomy shared by all services. Services
// never bake HTTP codes into errors; controllers translate Kind at the edge.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
	KindUnauthorized
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error     { return newf(KindNotFound, format, args...) }
func Forbiddenf(format string, args ...interface{}) error    { return newf(KindForbidden, format, args...) }
func Conflictf(format string, args ...interface{}) error     { return newf(KindConflict, format, args...) }
func Validationf(format string, args ...interface{}) error   { return newf(KindValidation, format, args...) }
func Unauthorizedf(format string, args ...interface{}) error { return newf(KindUnauthorized, format, args...) }

// Wrap keeps the cause while classifying it.
func Wrap(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the classified kind, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
