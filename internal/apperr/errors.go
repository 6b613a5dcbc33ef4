// Package apperr classifies failures into a small, stable taxonomy.
//
// Callers match a class with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
// and show users only Message(err), which never leaks internal detail.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the classification of an error
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindValidation          Kind = "validation"
	KindDuplicate           Kind = "duplicate"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

// Error is a classified error with a user-safe message
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
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind when the target is a bare sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrDuplicate           = &Error{Kind: KindDuplicate}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrUpstreamTimeout     = &Error{Kind: KindUpstreamTimeout}
	ErrConflict            = &Error{Kind: KindConflict}
)

// New creates a classified error
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind with a user-safe message
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func NotFound(format string, args ...interface{}) error {
	return New(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) error {
	return New(KindInvalidState, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return New(KindValidation, format, args...)
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		return defaultMessages[e.Kind]
	}
	return defaultMessages[KindInternal]
}

var defaultMessages = map[Kind]string{
	KindNotFound:            "resource not found",
	KindInvalidState:        "operation not allowed in the current state",
	KindValidation:          "invalid input",
	KindDuplicate:           "resource already exists",
	KindUpstreamUnavailable: "upstream service unavailable, please try again later",
	KindUpstreamTimeout:     "upstream service timed out, please try again later",
	KindConflict:            "concurrent update conflict, please retry",
	KindInternal:            "internal error",
}
