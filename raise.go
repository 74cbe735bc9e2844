// raise.go — building Error Values and starting propagation.
//
// Scope:
//   - New/From build values without raising; Raise/Raisef/Throw raise.
//   - Check/Must bridge Go's returned errors into the raise channel, and
//     Recover bridges back, so a function can either handle a failure locally
//     or declare it by returning error.
//   - toError translates whatever a boundary recovered (our signal, a runtime
//     error, any other panic value) into an Error Value.
//
// Propagation is a panic carrying an unexported signal. Boundaries recover it;
// nothing else in this package calls recover.
package esm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// signal is the panic payload of a raise.
type signal struct {
	err *Error
}

// New builds an Error Value and captures its origin trace at the call site.
// At most one cause is kept; several are joined with errors.Join.
func New(kind Kind, message string, cause ...error) *Error {
	return build(kind, message, joinCauses(cause), captureTrace(1, false))
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return build(kind, fmt.Sprintf(format, args...), nil, captureTrace(1, false))
}

func build(kind Kind, message string, cause error, trace Trace) *Error {
	if kind == "" {
		kind = KindUnclassified
	}
	return &Error{
		id:    uuid.New(),
		kind:  kind,
		msg:   message,
		cause: cause,
		trace: trace,
	}
}

func joinCauses(causes []error) error {
	switch len(causes) {
	case 0:
		return nil
	case 1:
		return causes[0]
	default:
		return errors.Join(causes...)
	}
}

// Raise builds an Error Value and transfers control to the nearest boundary
// with a matching handler. It never returns.
func Raise(kind Kind, message string, cause ...error) {
	throw(build(kind, message, joinCauses(cause), captureTrace(1, false)))
}

// Raisef is Raise with a formatted message.
func Raisef(kind Kind, format string, args ...any) {
	throw(build(kind, fmt.Sprintf(format, args...), nil, captureTrace(1, false)))
}

// Throw raises err. An *Error is raised unchanged, trace included, which is
// how a handler rethrows. Other errors are converted with From. Throwing nil
// raises a nil_reference error.
func Throw(err error) {
	if err == nil {
		throw(build(KindNilReference, "throw of nil error", nil, captureTrace(1, false)))
	}
	if e, ok := err.(*Error); ok {
		if e == nil {
			throw(build(KindNilReference, "throw of nil *Error", nil, captureTrace(1, false)))
		}
		throw(e)
	}
	throw(From(err))
}

func throw(e *Error) {
	panic(signal{err: e})
}

// From converts any error into an Error Value without raising it.
//   - nil → nil
//   - *Error → returned as-is
//   - errors wrapping an *Error → new value of the same kind, err as cause
//   - fs.ErrNotExist → resource_not_found
//   - fs.ErrPermission, deadline and cancellation errors → resource_unavailable
//   - anything else → unclassified
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return build(classify(err), err.Error(), err, captureTrace(1, false))
}

// classify picks a kind for a foreign error.
func classify(err error) Kind {
	var inner *Error
	switch {
	case errors.As(err, &inner):
		return inner.kind
	case errors.Is(err, fs.ErrNotExist):
		return KindResourceNotFound
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindResourceUnavailable
	default:
		return KindUnclassified
	}
}

// Check raises err when it is non-nil.
func Check(err error) {
	if err != nil {
		Throw(err)
	}
}

// Must returns v, or raises err when it is non-nil.
func Must[T any](v T, err error) T {
	if err != nil {
		Throw(err)
	}
	return v
}

// Recover turns a raise back into a returned error. It must be deferred
// directly:
//
//	func load() (err error) {
//		defer esm.Recover(&err)
//		...
//	}
//
// Runtime errors and other panic values are converted like at any boundary.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if errp != nil {
		*errp = toError(r)
	}
}

// toError converts a recovered value. It must run inside the deferred
// function that called recover so the panicking frames are still on the stack.
func toError(r any) *Error {
	switch v := r.(type) {
	case signal:
		return v.err
	case runtime.Error:
		kind, msg := classifyRuntime(v)
		return build(kind, msg, v, captureTrace(1, true))
	case *Error:
		return v
	case error:
		return build(classify(v), v.Error(), v, captureTrace(1, true))
	default:
		return build(KindPanic, fmt.Sprint(v), nil, captureTrace(1, true))
	}
}

func classifyRuntime(re runtime.Error) (Kind, string) {
	msg := strings.TrimPrefix(re.Error(), "runtime error: ")
	switch {
	case strings.Contains(msg, "integer divide by zero"):
		return KindDivisionByZero, msg
	case strings.Contains(msg, "integer overflow"):
		return KindArithmeticOverflow, msg
	case strings.Contains(msg, "index out of range"),
		strings.Contains(msg, "slice bounds out of range"):
		return KindIndexOutOfRange, msg
	case strings.Contains(msg, "nil pointer dereference"),
		strings.Contains(msg, "nil map"):
		return KindNilReference, msg
	default:
		return KindPanic, msg
	}
}
