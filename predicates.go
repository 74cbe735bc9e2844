// predicates.go — handler predicates and chain queries.
//
// Scope:
//   - Predicates decide whether a handler intercepts an Error Value. Each one
//     also knows which other predicates it covers, which is what lets Declare
//     reject a handler that an earlier, broader one makes unreachable.
//   - Chain queries (KindOf, HasKind, InCategory) use errors.As / errors.Is so
//     wrapped and suppressed errors are found too.
package esm

import (
	"errors"
	"slices"
	"strings"
)

// Predicate is the match test of a handler.
type Predicate interface {
	// Match reports whether the handler applies to e.
	Match(e *Error) bool
	// Covers reports whether every error matched by other is also matched by
	// this predicate. It may return false when coverage cannot be decided.
	Covers(other Predicate) bool
	String() string
}

// OnKind matches exactly one kind.
func OnKind(k Kind) Predicate { return kindPredicate{kind: k} }

// OnKinds matches any of the given kinds.
func OnKinds(kinds ...Kind) Predicate {
	set := slices.Clone(kinds)
	slices.Sort(set)
	return kindsPredicate{kinds: slices.Compact(set)}
}

// OnCategory matches every kind registered under c.
func OnCategory(c Category) Predicate { return categoryPredicate{category: c} }

// OnAny matches every Error Value.
func OnAny() Predicate { return anyPredicate{} }

// OnFunc matches when fn returns true. Only OnAny covers it, and it covers
// nothing, since arbitrary functions cannot be compared.
func OnFunc(name string, fn func(*Error) bool) Predicate {
	return funcPredicate{name: name, fn: fn}
}

type kindPredicate struct{ kind Kind }

func (p kindPredicate) Match(e *Error) bool { return e != nil && e.kind == p.kind }
func (p kindPredicate) String() string      { return "kind(" + string(p.kind) + ")" }

func (p kindPredicate) Covers(other Predicate) bool {
	switch o := other.(type) {
	case kindPredicate:
		return o.kind == p.kind
	case kindsPredicate:
		return len(o.kinds) == 1 && o.kinds[0] == p.kind
	default:
		return false
	}
}

type kindsPredicate struct{ kinds []Kind }

func (p kindsPredicate) Match(e *Error) bool {
	return e != nil && slices.Contains(p.kinds, e.kind)
}

func (p kindsPredicate) String() string {
	parts := make([]string, len(p.kinds))
	for i, k := range p.kinds {
		parts[i] = string(k)
	}
	return "kinds(" + strings.Join(parts, "|") + ")"
}

func (p kindsPredicate) Covers(other Predicate) bool {
	switch o := other.(type) {
	case kindPredicate:
		return slices.Contains(p.kinds, o.kind)
	case kindsPredicate:
		for _, k := range o.kinds {
			if !slices.Contains(p.kinds, k) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

type categoryPredicate struct{ category Category }

func (p categoryPredicate) Match(e *Error) bool {
	return e != nil && e.kind.Category() == p.category
}

func (p categoryPredicate) String() string { return "category(" + string(p.category) + ")" }

func (p categoryPredicate) Covers(other Predicate) bool {
	switch o := other.(type) {
	case kindPredicate:
		return o.kind.Category() == p.category
	case kindsPredicate:
		for _, k := range o.kinds {
			if k.Category() != p.category {
				return false
			}
		}
		return true
	case categoryPredicate:
		return o.category == p.category
	default:
		return false
	}
}

type anyPredicate struct{}

func (anyPredicate) Match(e *Error) bool   { return e != nil }
func (anyPredicate) Covers(Predicate) bool { return true }
func (anyPredicate) String() string        { return "any" }

type funcPredicate struct {
	name string
	fn   func(*Error) bool
}

func (p funcPredicate) Match(e *Error) bool { return e != nil && p.fn != nil && p.fn(e) }
func (funcPredicate) Covers(Predicate) bool { return false }
func (p funcPredicate) String() string      { return "func(" + p.name + ")" }

// KindOf returns the kind of the first Error Value in err's graph, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

// CategoryOf returns the category of KindOf(err), or "" if err carries no
// Error Value.
func CategoryOf(err error) Category {
	k := KindOf(err)
	if k == "" {
		return ""
	}
	return k.Category()
}

// HasKind reports whether any Error Value in err's graph has kind k.
func HasKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, Sentinel(k))
}

// InCategory reports whether any Error Value in err's graph belongs to c.
func InCategory(err error, c Category) bool {
	found := false
	Walk(err, func(e error) bool {
		if v, ok := e.(*Error); ok && v.kind.Category() == c {
			found = true
			return false
		}
		return true
	})
	return found
}
