// kinds.go — the flat, extensible kind set and its category grouping.
//
// Intent:
//   - Kinds are the discriminant of an Error Value. They are flat: a new failure
//     mode is a new Kind, never a deeper type hierarchy.
//   - Categories group kinds so handlers can match "any arithmetic failure"
//     without knowing every member.
//   - Projects extend the set with RegisterKind at init time.
//
// Conventions (documented, not enforced here):
//   - Kinds and categories are lowercase snake_case ASCII.
//   - Register domain kinds once, from package init or main, before raising them.
package esm

import (
	"fmt"
	"slices"
	"sync"
)

// Kind classifies an Error Value.
type Kind string

// Category groups related kinds for broad handler predicates.
type Category string

// Categories shipped with the core.
const (
	CategoryArithmetic   Category = "arithmetic"
	CategoryBounds       Category = "bounds"
	CategoryResource     Category = "resource"
	CategoryDomain       Category = "domain"
	CategoryUnclassified Category = "unclassified"
)

// Arithmetic
const (
	KindDivisionByZero     Kind = "division_by_zero"
	KindArithmeticOverflow Kind = "arithmetic_overflow"
)

// Bounds
const (
	KindIndexOutOfRange Kind = "index_out_of_range"
)

// Resource
const (
	KindResourceNotFound    Kind = "resource_not_found"
	KindResourceUnavailable Kind = "resource_unavailable"
	KindReleaseFailed       Kind = "release_failed"
)

// Domain
const (
	KindInvalidArgument Kind = "invalid_argument"
)

// Unclassified / meta
const (
	KindNilReference       Kind = "nil_reference"
	KindPanic              Kind = "panic"
	KindInvalidDeclaration Kind = "invalid_declaration"
	KindUnclassified       Kind = "unclassified"
)

var builtinKinds = map[Kind]Category{
	KindDivisionByZero:      CategoryArithmetic,
	KindArithmeticOverflow:  CategoryArithmetic,
	KindIndexOutOfRange:     CategoryBounds,
	KindResourceNotFound:    CategoryResource,
	KindResourceUnavailable: CategoryResource,
	KindReleaseFailed:       CategoryResource,
	KindInvalidArgument:     CategoryDomain,
	KindNilReference:        CategoryUnclassified,
	KindPanic:               CategoryUnclassified,
	KindInvalidDeclaration:  CategoryUnclassified,
	KindUnclassified:        CategoryUnclassified,
}

// registry holds built-ins plus project kinds. Written only by RegisterKind.
var registry = struct {
	sync.RWMutex
	kinds map[Kind]Category
}{kinds: cloneKinds(builtinKinds)}

func cloneKinds(in map[Kind]Category) map[Kind]Category {
	out := make(map[Kind]Category, len(in))
	for k, c := range in {
		out[k] = c
	}
	return out
}

// RegisterKind adds kind to the set under category.
//
// Registering the same (kind, category) pair twice is a no-op. Moving an
// already registered kind to a different category is an error, as is an empty
// kind or category.
func RegisterKind(kind Kind, category Category) error {
	if kind == "" {
		return New(KindInvalidDeclaration, "kind must not be empty")
	}
	if category == "" {
		return New(KindInvalidDeclaration, fmt.Sprintf("category for kind %q must not be empty", kind))
	}

	registry.Lock()
	defer registry.Unlock()

	if have, ok := registry.kinds[kind]; ok {
		if have == category {
			return nil
		}
		return New(KindInvalidDeclaration,
			fmt.Sprintf("kind %q already registered under category %q", kind, have))
	}
	registry.kinds[kind] = category
	return nil
}

// MustRegisterKind is RegisterKind for package-level declarations; it raises
// on failure.
func MustRegisterKind(kind Kind, category Category) Kind {
	if err := RegisterKind(kind, category); err != nil {
		Throw(err)
	}
	return kind
}

// Category returns the category k was registered under, or
// CategoryUnclassified for unknown kinds.
func (k Kind) Category() Category {
	registry.RLock()
	c, ok := registry.kinds[k]
	registry.RUnlock()
	if !ok {
		return CategoryUnclassified
	}
	return c
}

// IsBuiltin reports whether k ships with the core.
func (k Kind) IsBuiltin() bool {
	_, ok := builtinKinds[k]
	return ok
}

// IsRegistered reports whether k is built in or was added with RegisterKind.
func (k Kind) IsRegistered() bool {
	registry.RLock()
	_, ok := registry.kinds[k]
	registry.RUnlock()
	return ok
}

// Kinds returns the registered kinds in lexical order.
func Kinds() []Kind {
	registry.RLock()
	out := make([]Kind, 0, len(registry.kinds))
	for k := range registry.kinds {
		out = append(out, k)
	}
	registry.RUnlock()
	slices.Sort(out)
	return out
}

// KindsIn returns the registered kinds of category c in lexical order.
func KindsIn(c Category) []Kind {
	registry.RLock()
	out := make([]Kind, 0, 4)
	for k, kc := range registry.kinds {
		if kc == c {
			out = append(out, k)
		}
	}
	registry.RUnlock()
	slices.Sort(out)
	return out
}
