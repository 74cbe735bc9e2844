// chain.go — traversal of error graphs.
//
// An Error Value unwraps to its cause followed by its suppressed failures
// (Unwrap() []error), and foreign wrappers may use either Unwrap form, so
// traversal handles both.
//
// Map keys need comparable dynamic types, so the seen-set is split:
//   - comparable dynamics are keyed by value
//   - other pointer dynamics are keyed by address
//   - everything else is assumed acyclic and bounded by the depth cap
package esm

import (
	"reflect"
)

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

const maxWalkDepth = 1 << 12

type seenSet struct {
	byValue map[error]struct{}
	byPtr   map[uintptr]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{
		byValue: make(map[error]struct{}, 8),
		byPtr:   make(map[uintptr]struct{}, 8),
	}
}

// mark reports whether err was not seen before, and records it.
func (s *seenSet) mark(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*Error); ok || reflect.TypeOf(err).Comparable() {
		if _, dup := s.byValue[err]; dup {
			return false
		}
		s.byValue[err] = struct{}{}
		return true
	}
	if rv := reflect.ValueOf(err); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		id := rv.Pointer()
		if _, dup := s.byPtr[id]; dup {
			return false
		}
		s.byPtr[id] = struct{}{}
	}
	return true
}

// Walk visits every distinct error in err's graph in pre-order, children left
// to right. It stops early when visit returns false.
func Walk(err error, visit func(error) bool) {
	if err == nil || visit == nil {
		return
	}
	seen := newSeenSet()
	stack := []error{err}
	seen.mark(err)

	for len(stack) > 0 && len(stack) < maxWalkDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		switch u := cur.(type) {
		case multiUnwrapper:
			kids := u.Unwrap()
			for i := len(kids) - 1; i >= 0; i-- {
				if kids[i] != nil && seen.mark(kids[i]) {
					stack = append(stack, kids[i])
				}
			}
		case singleUnwrapper:
			if next := u.Unwrap(); next != nil && seen.mark(next) {
				stack = append(stack, next)
			}
		}
	}
}

// Chain returns err followed by its causes, outermost first, stopping at the
// first error that is not an Error Value. Suppressed failures are not part of
// the chain.
func Chain(err error) []*Error {
	var out []*Error
	for e, ok := err.(*Error); ok && e != nil && len(out) < maxWalkDepth; e, ok = e.cause.(*Error) {
		out = append(out, e)
	}
	return out
}

// Root follows causes to the innermost error, crossing foreign wrappers with a
// single Unwrap. It returns nil for nil.
func Root(err error) error {
	for range maxWalkDepth {
		var next error
		switch u := err.(type) {
		case *Error:
			next = u.cause
		case singleUnwrapper:
			next = u.Unwrap()
		}
		if next == nil {
			return err
		}
		err = next
	}
	return err
}
