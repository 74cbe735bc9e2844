// scope.go — automatic resource release bound to a block.
//
// Using opens a Scope; Acquire registers each resource with the scope as it is
// obtained. At scope exit every resource is released exactly once, last
// acquired first, whether the body returned or raised.
//
// A failed release becomes a new Error Value: its kind comes from the failure
// (release_failed for foreign errors), its cause is the error that was in
// flight at that point, and the failure itself is recorded as suppressed.
// Releases continue after a failure; each later failure chains on the latest.
package esm

import (
	"errors"
	"fmt"
	"io"
)

// Scope owns the resources acquired inside one Using block. A Scope belongs
// to the goroutine running the block and must not be shared.
type Scope struct {
	held   []held
	closed bool
}

type held struct {
	name    string
	release func() error
}

// Len returns how many resources the scope still holds.
func (s *Scope) Len() int { return len(s.held) }

// Defer registers fn to run at scope exit, ordered with acquired resources.
func (s *Scope) Defer(name string, fn func() error) {
	if fn == nil {
		Raise(KindInvalidArgument, "scope: nil release for "+name)
	}
	if s.closed {
		Raise(KindResourceUnavailable, "scope: already closed")
	}
	s.held = append(s.held, held{name: name, release: fn})
}

// Acquire obtains a resource with acquire and registers release for scope
// exit. An acquire error is raised (converted with From, so a missing file
// raises resource_not_found); nothing is registered in that case.
func Acquire[R any](s *Scope, acquire func() (R, error), release func(R) error) R {
	if release == nil {
		Raise(KindInvalidArgument, "scope: nil release")
	}
	if s.closed {
		Raise(KindResourceUnavailable, "scope: already closed")
	}
	h, err := acquire()
	if err != nil {
		Throw(err)
	}
	s.held = append(s.held, held{
		name:    fmt.Sprintf("%T", h),
		release: func() error { return release(h) },
	})
	return h
}

// AcquireCloser is Acquire for io.Closer resources.
func AcquireCloser[R io.Closer](s *Scope, open func() (R, error)) R {
	return Acquire(s, open, func(r R) error { return r.Close() })
}

// Using runs body with a fresh Scope and releases what it acquired on exit.
func Using[T any](body func(s *Scope) T) T {
	s := &Scope{}
	defer func() {
		// runtime.Goexit: release, nothing can be raised any more.
		if !s.closed {
			s.release(nil)
		}
	}()

	out, raised := call(func() T { return body(s) })
	if inflight := s.release(raised); inflight != nil {
		throw(inflight)
	}
	return out
}

// release frees held resources in reverse order and returns the error that
// should propagate, if any.
func (s *Scope) release(inflight *Error) *Error {
	s.closed = true
	for i := len(s.held) - 1; i >= 0; i-- {
		h := s.held[i]
		rerr, raised := call(h.release)
		failure := rerr
		if raised != nil {
			failure = raised
		}
		if failure != nil {
			inflight = releaseFailure(h.name, failure, inflight)
		}
	}
	s.held = nil
	return inflight
}

func releaseFailure(name string, failure error, inflight *Error) *Error {
	kind := KindReleaseFailed
	var fe *Error
	if errors.As(failure, &fe) {
		kind = fe.kind
	}
	var cause error
	if inflight != nil {
		cause = inflight
	}
	e := build(kind, "release "+name+": "+failure.Error(), cause, captureTrace(1, false))
	e.suppressed = []error{failure}
	return e
}
