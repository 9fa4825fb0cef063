// Package wmcerr defines the error taxonomy surfaced by the engine.
//
// Every hard failure the engine reports to the user is one of the Kinds
// below; none are retried internally. EmptyClause is deliberately not part
// of this taxonomy — an empty clause is a modeled outcome (UNSAT), handled
// by the finalizer, not an error condition.
package wmcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags the category of a hard failure.
type Kind int

const (
	// InputError: malformed join-tree line, out-of-range index, missing
	// problem line, a CNF clause count that does not match its problem
	// line.
	InputError Kind = iota
	// SemanticError: a forbidden mode combination, e.g. maximizing without
	// existRandom, or log-counting together with multiplePrecision.
	SemanticError
	// NoJoinTree: no complete join tree was committed before EOF.
	NoJoinTree
	// BackendError: the diagram adapter reported out-of-memory or an
	// invariant violation.
	BackendError
)

func (k Kind) String() string {
	switch k {
	case InputError:
		return "InputError"
	case SemanticError:
		return "SemanticError"
	case NoJoinTree:
		return "NoJoinTree"
	case BackendError:
		return "BackendError"
	default:
		return "UnknownError"
	}
}

// Error is the engine's single error type. Op names the operation that
// failed, matching the LogicError.Op convention this package is adapted
// from; Kind selects the taxonomy bucket so callers can branch on cause
// without string-matching messages.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to a wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with no wrapped cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches op/message context to an existing error via pkg/errors,
// preserving its stack trace for diagnostics.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, cause: errors.WithStack(cause)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
