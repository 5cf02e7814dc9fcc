// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that leaves the request client or the auth service carries a Kind,
// so callers can tell "the user has been signed out" apart from "the network is down"
// without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Transport indicates the request never reached the server.
	Transport Kind = "transport"
	// RefreshFailed indicates the refresh endpoint rejected or could not be reached.
	RefreshFailed Kind = "refresh_failed"
	// SignedOut indicates the session is gone and the user must log in again.
	SignedOut Kind = "signed_out"
	// Store indicates a credential store read or write failure.
	Store Kind = "store"
	// Decode indicates a malformed response body.
	Decode Kind = "decode"
	// Config indicates invalid or unreadable configuration.
	Config Kind = "config"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

// Is matches another *E by kind, so errors.Is(err, errors.New(SignedOut, "")) works.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the outermost *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether any *E in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &E{Kind: kind})
}
