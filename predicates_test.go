// predicates_test.go — verification of predicate matching, coverage and chain queries.
package esm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates_Match(t *testing.T) {
	t.Parallel()

	div := New(KindDivisionByZero, "x/0")
	idx := New(KindIndexOutOfRange, "xs[9]")

	cases := []struct {
		name string
		p    Predicate
		e    *Error
		want bool
	}{
		{"kind hit", OnKind(KindDivisionByZero), div, true},
		{"kind miss", OnKind(KindDivisionByZero), idx, false},
		{"kinds hit", OnKinds(KindIndexOutOfRange, KindDivisionByZero), idx, true},
		{"kinds miss", OnKinds(KindPanic), idx, false},
		{"category hit", OnCategory(CategoryArithmetic), div, true},
		{"category miss", OnCategory(CategoryArithmetic), idx, false},
		{"any", OnAny(), idx, true},
		{"func hit", OnFunc("msg", func(e *Error) bool { return e.Message() == "x/0" }), div, true},
		{"func miss", OnFunc("msg", func(e *Error) bool { return e.Message() == "x/0" }), idx, false},
		{"nil func", OnFunc("nil", nil), div, false},
		{"nil error", OnAny(), nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Match(tc.e))
		})
	}
}

func TestPredicates_Covers(t *testing.T) {
	t.Parallel()

	fn := OnFunc("f", func(*Error) bool { return true })
	cases := []struct {
		name        string
		broad, narr Predicate
		want        bool
	}{
		{"any covers everything", OnAny(), fn, true},
		{"category covers its kind", OnCategory(CategoryArithmetic), OnKind(KindDivisionByZero), true},
		{"category skips other kinds", OnCategory(CategoryArithmetic), OnKind(KindIndexOutOfRange), false},
		{"category covers kinds inside it", OnCategory(CategoryResource), OnKinds(KindResourceNotFound, KindReleaseFailed), true},
		{"category misses mixed kinds", OnCategory(CategoryResource), OnKinds(KindResourceNotFound, KindPanic), false},
		{"category covers itself", OnCategory(CategoryBounds), OnCategory(CategoryBounds), true},
		{"kind does not cover category", OnKind(KindIndexOutOfRange), OnCategory(CategoryBounds), false},
		{"kind covers same kind", OnKind(KindPanic), OnKind(KindPanic), true},
		{"kind covers singleton set", OnKind(KindPanic), OnKinds(KindPanic, KindPanic), true},
		{"kinds covers subset", OnKinds(KindPanic, KindNilReference), OnKind(KindNilReference), true},
		{"kinds misses superset", OnKinds(KindPanic), OnKinds(KindPanic, KindNilReference), false},
		{"func covers nothing", fn, OnKind(KindPanic), false},
		{"nothing but any covers func", OnCategory(CategoryArithmetic), fn, false},
		{"any is covered only by any", OnCategory(CategoryArithmetic), OnAny(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.broad.Covers(tc.narr))
		})
	}
}

func TestPredicates_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kind(panic)", OnKind(KindPanic).String())
	assert.Equal(t, "kinds(division_by_zero|panic)", OnKinds(KindPanic, KindDivisionByZero, KindPanic).String())
	assert.Equal(t, "category(bounds)", OnCategory(CategoryBounds).String())
	assert.Equal(t, "any", OnAny().String())
	assert.Equal(t, "func(odd)", OnFunc("odd", nil).String())
}

func TestChainQueries(t *testing.T) {
	t.Parallel()

	leaf := New(KindDivisionByZero, "x/0")
	mid := fmt.Errorf("compute: %w", leaf)
	top := New(KindInvalidArgument, "request", mid).withSuppressed(New(KindReleaseFailed, "close"))

	assert.Equal(t, KindInvalidArgument, KindOf(top))
	assert.Equal(t, KindDivisionByZero, KindOf(mid))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))

	assert.Equal(t, CategoryDomain, CategoryOf(top))
	assert.Equal(t, Category(""), CategoryOf(errors.New("plain")))

	assert.True(t, HasKind(top, KindDivisionByZero))
	assert.True(t, HasKind(top, KindReleaseFailed))
	assert.False(t, HasKind(top, KindPanic))
	assert.False(t, HasKind(nil, KindPanic))

	assert.True(t, InCategory(top, CategoryArithmetic))
	assert.True(t, InCategory(top, CategoryResource))
	assert.False(t, InCategory(top, CategoryBounds))
}
