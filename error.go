// error.go — the Error Value.
package esm

import (
	"slices"

	"github.com/google/uuid"
)

// Error is an immutable record of one failure occurrence.
//
// Build values with New, or raise them directly with Raise. The zero value is
// not useful.
type Error struct {
	id         uuid.UUID
	kind       Kind
	msg        string
	cause      error
	suppressed []error
	trace      Trace
	sentinel   bool
}

// Error returns "<kind>: <message>", or just the kind when there is no message.
func (e *Error) Error() string {
	if e.msg == "" {
		return string(e.kind)
	}
	return string(e.kind) + ": " + e.msg
}

// ID identifies the failure occurrence. A rethrown error keeps its ID; a
// release failure is a new occurrence with its own.
func (e *Error) ID() uuid.UUID { return e.id }

func (e *Error) Kind() Kind         { return e.kind }
func (e *Error) Category() Category { return e.kind.Category() }
func (e *Error) Message() string    { return e.msg }

// Cause returns the error this one wraps, or nil.
func (e *Error) Cause() error { return e.cause }

// Suppressed returns failures that happened during cleanup while this error
// was in flight. The returned slice is a copy.
func (e *Error) Suppressed() []error { return slices.Clone(e.suppressed) }

// Trace returns a copy of the origin trace, innermost frame first.
func (e *Error) Trace() Trace { return slices.Clone(e.trace) }

// Unwrap exposes the cause followed by suppressed failures so that
// errors.Is and errors.As traverse the whole graph.
func (e *Error) Unwrap() []error {
	if e.cause == nil && len(e.suppressed) == 0 {
		return nil
	}
	out := make([]error, 0, 1+len(e.suppressed))
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return append(out, e.suppressed...)
}

// Is matches a Sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.kind == e.kind
}

// Sentinel returns a comparison value for kind: errors.Is(err, Sentinel(k))
// reports whether any Error Value of kind k is in err's graph.
func Sentinel(kind Kind) *Error {
	return &Error{kind: kind, sentinel: true}
}

// withSuppressed returns a copy of e that also records extra.
func (e *Error) withSuppressed(extra error) *Error {
	n := *e
	n.suppressed = append(slices.Clone(e.suppressed), extra)
	return &n
}
