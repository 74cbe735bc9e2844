// handler.go — handler declarations and their declaration-time checks.
package esm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachableHandler is the cause of a declaration that lists a
	// handler after a broader one that already covers it.
	ErrUnreachableHandler = errors.New("esm: unreachable handler")

	// ErrInvalidHandler is the cause of a declaration with a nil predicate
	// or action.
	ErrInvalidHandler = errors.New("esm: invalid handler")
)

// Handler pairs a predicate with the action run for a matching Error Value.
// The action's result becomes the result of the protected region.
type Handler[T any] struct {
	Predicate Predicate
	Action    func(*Error) T
}

// Catch builds a Handler.
func Catch[T any](p Predicate, action func(*Error) T) Handler[T] {
	return Handler[T]{Predicate: p, Action: action}
}

// Handlers is a validated, most-specific-first handler list. The zero value
// is an empty list that intercepts nothing.
type Handlers[T any] struct {
	list []Handler[T]
}

// Declare validates hs in order. A handler whose predicate is covered by an
// earlier one could never run, so it is rejected with an invalid_declaration
// Error wrapping ErrUnreachableHandler.
func Declare[T any](hs ...Handler[T]) (Handlers[T], error) {
	for i, h := range hs {
		if h.Predicate == nil || h.Action == nil {
			return Handlers[T]{}, New(KindInvalidDeclaration,
				fmt.Sprintf("handler %d: predicate and action are required", i), ErrInvalidHandler)
		}
		for j := range i {
			if hs[j].Predicate.Covers(h.Predicate) {
				return Handlers[T]{}, New(KindInvalidDeclaration,
					fmt.Sprintf("handler %d %s is unreachable: already caught by handler %d %s",
						i, h.Predicate, j, hs[j].Predicate),
					ErrUnreachableHandler)
			}
		}
	}
	list := make([]Handler[T], len(hs))
	copy(list, hs)
	return Handlers[T]{list: list}, nil
}

// MustDeclare is Declare that raises the declaration error.
func MustDeclare[T any](hs ...Handler[T]) Handlers[T] {
	h, err := Declare(hs...)
	if err != nil {
		Throw(err)
	}
	return h
}

// Len returns the number of handlers.
func (h Handlers[T]) Len() int { return len(h.list) }

// match returns the first handler whose predicate matches e.
func (h Handlers[T]) match(e *Error) (Handler[T], bool) {
	for _, hd := range h.list {
		if hd.Predicate.Match(e) {
			return hd, true
		}
	}
	return Handler[T]{}, false
}
