// Package apperr classifies failures so the HTTP and chat boundaries can pick
// a response without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuthentication   Kind = "authentication"
	KindMalformedInput   Kind = "malformed_input"
	KindDependencyFailed Kind = "dependency_failed"
	KindNotFound         Kind = "not_found"
	KindStorage          Kind = "storage"
)

// Error is a classified failure raised by an operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare sentinels below by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrAuthentication   = &Error{Kind: KindAuthentication}
	ErrMalformedInput   = &Error{Kind: KindMalformedInput}
	ErrDependencyFailed = &Error{Kind: KindDependencyFailed}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrStorage          = &Error{Kind: KindStorage}
)

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Authentication(op string, err error) error   { return New(KindAuthentication, op, err) }
func MalformedInput(op string, err error) error   { return New(KindMalformedInput, op, err) }
func DependencyFailed(op string, err error) error { return New(KindDependencyFailed, op, err) }
func NotFound(op string, err error) error         { return New(KindNotFound, op, err) }

// Storage wraps a database failure; nil stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(KindStorage, op, err)
}

// KindOf returns the outermost classification, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
