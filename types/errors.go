package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies contract errors by their cause.
type ErrorKind uint8

const (
	KindAuthorization ErrorKind = iota + 1
	KindNotFound
	KindValidation
	KindConflict
	KindCapacity
	KindLifecycle
	KindExternal
)

var kindNames = map[ErrorKind]string{
	KindAuthorization: "authorization",
	KindNotFound:      "not-found",
	KindValidation:    "validation",
	KindConflict:      "conflict",
	KindCapacity:      "capacity",
	KindLifecycle:     "lifecycle",
	KindExternal:      "external",
}

// String returns the name of the kind.
func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Error is a contract error. It carries a numeric code which is part of the
// external contract and must never change once assigned.
//
// Errors are compared by identity, so callers should wrap them with
// fmt.Errorf("%w: ...") to add context and match them with errors.Is.
type Error struct {
	Code uint32
	Kind ErrorKind
	Msg  string
}

// NewError returns a new contract error.
func NewError(code uint32, kind ErrorKind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Msg, e.Code)
}

// Withf returns err wrapped with the formatted detail.
func (e *Error) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// AsError extracts the contract error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrorCode returns the code of the contract error wrapped by err, or zero.
func ErrorCode(err error) uint32 {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return 0
}
