// error_test.go — verification for Error Value construction and interop.
package esm

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Basics(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	e := New(KindResourceUnavailable, "write ledger", cause)

	assert.Equal(t, KindResourceUnavailable, e.Kind())
	assert.Equal(t, CategoryResource, e.Category())
	assert.Equal(t, "write ledger", e.Message())
	assert.Equal(t, "resource_unavailable: write ledger", e.Error())
	assert.Same(t, cause, e.Cause())
	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.Empty(t, e.Suppressed())
}

func TestNew_EmptyMessageAndKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "division_by_zero", New(KindDivisionByZero, "").Error())
	assert.Equal(t, KindUnclassified, New("", "x").Kind())
}

func TestNew_DistinctOccurrencesHaveDistinctIDs(t *testing.T) {
	t.Parallel()

	a := New(KindPanic, "same")
	b := New(KindPanic, "same")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNew_MultipleCausesAreJoined(t *testing.T) {
	t.Parallel()

	c1, c2 := errors.New("one"), errors.New("two")
	e := New(KindUnclassified, "both", c1, c2)
	assert.ErrorIs(t, e, c1)
	assert.ErrorIs(t, e, c2)
}

func TestNew_CapturesTraceAtCallSite(t *testing.T) {
	t.Parallel()

	e := New(KindInvalidArgument, "here")
	tr := e.Trace()
	require.NotEmpty(t, tr)
	assert.Equal(t, "TestNew_CapturesTraceAtCallSite", tr[0].Name())
}

func TestTrace_ReturnsCopy(t *testing.T) {
	t.Parallel()

	e := New(KindInvalidArgument, "immutable")
	before := e.Trace()
	got := e.Trace()
	got[0].Function = "mutated"
	assert.Equal(t, before, e.Trace())
}

func TestSuppressed_ReturnsCopy(t *testing.T) {
	t.Parallel()

	base := New(KindDivisionByZero, "in flight")
	e := base.withSuppressed(errors.New("cleanup"))

	assert.Empty(t, base.Suppressed(), "withSuppressed must not touch the original")
	s := e.Suppressed()
	require.Len(t, s, 1)
	s[0] = nil
	assert.NotNil(t, e.Suppressed()[0])
	assert.Equal(t, base.ID(), e.ID())
}

func TestUnwrap_CauseThenSuppressed(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	extra := errors.New("extra")
	e := New(KindPanic, "x", cause).withSuppressed(extra)

	assert.Equal(t, []error{cause, extra}, e.Unwrap())
	assert.Nil(t, New(KindPanic, "leaf").Unwrap())
	assert.ErrorIs(t, e, extra)
}

func TestIs_SentinelMatchesKind(t *testing.T) {
	t.Parallel()

	e := New(KindIndexOutOfRange, "index 5")
	assert.ErrorIs(t, e, Sentinel(KindIndexOutOfRange))
	assert.NotErrorIs(t, e, Sentinel(KindDivisionByZero))
	// Two occurrences are not the same error.
	assert.NotErrorIs(t, e, New(KindIndexOutOfRange, "index 5"))

	wrapped := New(KindInvalidArgument, "outer", e)
	assert.ErrorIs(t, wrapped, Sentinel(KindIndexOutOfRange))
}

func TestErrorsAs_FindsInnerValue(t *testing.T) {
	t.Parallel()

	inner := New(KindResourceNotFound, "ledger.txt")
	outer := New(KindInvalidArgument, "load", inner)

	var target *Error
	require.ErrorAs(t, outer, &target)
	assert.Same(t, outer, target)

	target = nil
	require.ErrorAs(t, errors.Join(errors.New("noise"), inner), &target)
	assert.Same(t, inner, target)
}
