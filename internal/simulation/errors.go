package simulation

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies simulation failures for callers and the HTTP boundary.
type Kind string

const (
	KindInvalidMatchState     Kind = "INVALID_MATCH_STATE"
	KindInsufficientPlayers   Kind = "INSUFFICIENT_PLAYERS"
	KindRotationExhausted     Kind = "ROTATION_EXHAUSTED"
	KindDependencyUnavailable Kind = "DEPENDENCY_UNAVAILABLE"
	KindNotFound              Kind = "NOT_FOUND"
)

// Error is a typed simulation error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrInvalidMatchState     = &Error{Kind: KindInvalidMatchState, Message: "operation not allowed in the current match state"}
	ErrInsufficientPlayers   = &Error{Kind: KindInsufficientPlayers, Message: "not enough players available"}
	ErrRotationExhausted     = &Error{Kind: KindRotationExhausted, Message: "no eligible bowler remains"}
	ErrDependencyUnavailable = &Error{Kind: KindDependencyUnavailable, Message: "dependency unavailable"}
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "match not found"}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the trigger API's status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidMatchState, KindRotationExhausted:
		return http.StatusConflict
	case KindInsufficientPlayers:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
