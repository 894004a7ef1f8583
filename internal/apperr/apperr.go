// Package apperr defines the error kinds reported at the workflow boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for reporting.
type Kind string

const (
	KindInvalidInput  Kind = "invalid input"
	KindNotFound      Kind = "not found"
	KindLaunchFailure Kind = "launch failure"
	KindParseFailure  Kind = "parse failure"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrLaunchFailure = &Error{Kind: KindLaunchFailure}
	ErrParseFailure  = &Error{Kind: KindParseFailure}
)

// Error is a classified error with an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind with cause err.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Cause returns the underlying cause of the first *Error in err's chain.
func Cause(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Err
	}
	return nil
}
