// Package hodlerr defines the small set of error kinds that cross component
// boundaries in hodlvoice. Every kind wraps an underlying *errors.Error so a
// stack trace survives into the logs.
package hodlerr

import (
	"fmt"

	"github.com/go-errors/errors"
)

// Kind classifies an error for the purposes of propagation policy (see
// rpcserver, which maps every kind to an Internal gRPC status) and logging.
type Kind int

const (
	// KindParse indicates a malformed config value, state string, or
	// numeric datastore field.
	KindParse Kind = iota

	// KindRPC indicates a host RPC call failed or returned an unexpected
	// response shape.
	KindRPC

	// KindMissing indicates an expected datastore key was absent.
	KindMissing

	// KindWrongState indicates a gRPC mutation was attempted from a
	// non-permitted state.
	KindWrongState

	// KindFatal indicates an in-memory invariant was violated. This kind
	// aborts the handler it's raised from.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse_error"
	case KindRPC:
		return "rpc_error"
	case KindMissing:
		return "missing_entry"
	case KindWrongState:
		return "wrong_state"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a hodlvoice error carrying a Kind plus a stack-traced cause.
type Error struct {
	Kind  Kind
	cause *errors.Error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
}

// Unwrap enables errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause.Err
}

// Stack returns a formatted stack trace captured at the point the error was
// raised, useful in log lines for KindFatal.
func (e *Error) Stack() string {
	return string(e.cause.Stack())
}

// New creates a Error of the given kind from a format string.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		cause: errors.Wrap(fmt.Errorf(format, args...), 1),
	}
}

// Wrap creates a Error of the given kind wrapping an existing error,
// capturing a stack trace at the call site.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	if already, ok := err.(*Error); ok {
		return already
	}
	return &Error{
		Kind:  kind,
		cause: errors.Wrap(err, 1),
	}
}

// Is reports whether err is a hodlerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
