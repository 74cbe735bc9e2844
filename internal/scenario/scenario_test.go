package scenario

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgx-io/esm"
)

func TestDivide(t *testing.T) {
	var out bytes.Buffer
	res := Divide(&out, []int{1, 2, 3, 4, 6}, []int{1, 2, 0, 4, 6})

	assert.Equal(t, []any{1, 1, Handled, 1, 1}, res.Values)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Contains(t, out.String(), "caught division_by_zero: integer divide by zero")
	assert.True(t, strings.HasSuffix(out.String(), "completed\n"))
}

func TestDivide_ShortDenominatorsPropagate(t *testing.T) {
	var out bytes.Buffer
	err := esm.Try(func() { Divide(&out, []int{1, 2}, []int{1}) })

	assert.Equal(t, esm.KindIndexOutOfRange, esm.KindOf(err))
	assert.NotContains(t, out.String(), StatusCompleted)
}

func TestHierarchy(t *testing.T) {
	var out bytes.Buffer
	res := Hierarchy(&out)

	assert.Equal(t, "kind(division_by_zero)", res.CaughtBy)
	require.Error(t, res.Declaration)
	assert.ErrorIs(t, res.Declaration, esm.ErrUnreachableHandler)
	assert.Contains(t, out.String(), "program continues after handling")
}

func TestStackTrace(t *testing.T) {
	var out bytes.Buffer
	trace := StackTrace(&out, 5, 5)

	require.Len(t, trace, 4, "trace:\n%s", trace)
	fns := trace.Functions()
	assert.Equal(t, []string{"level3", "level2", "level1"}, fns[:3])
	assert.Contains(t, fns[3], "StackTrace")
	for _, f := range trace {
		assert.Equal(t, "trace.go", filepath.Base(f.File), "frame %s", f)
	}
	assert.Contains(t, out.String(), "index_out_of_range")
	assert.Contains(t, out.String(), "\tat ")
	assert.Contains(t, out.String(), "reached the end")
}

func TestPropagate(t *testing.T) {
	fsys := memfs.New()

	err := esm.Try(func() { Propagate(fsys, "a.txt") })
	var e *esm.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, esm.KindResourceNotFound, e.Kind())
	assert.ErrorIs(t, e, fs.ErrNotExist)
	fns := e.Trace().Functions()
	require.GreaterOrEqual(t, len(fns), 3)
	assert.Equal(t, []string{"openFile", "readVia", "Propagate"}, fns[:3])

	require.NoError(t, util.WriteFile(fsys, "a.txt", []byte("x"), 0o644))
	assert.NoError(t, esm.Try(func() { Propagate(fsys, "a.txt") }))
}

func TestOpenChecked(t *testing.T) {
	fsys := memfs.New()
	err := OpenChecked(fsys, "a.txt")
	assert.True(t, esm.HasKind(err, esm.KindResourceNotFound))
}

func TestFinally(t *testing.T) {
	t.Run("without exit", func(t *testing.T) {
		var out bytes.Buffer
		Finally(&out, nil)
		s := out.String()

		for _, want := range []string{
			"Example 1: cleanup always runs",
			"Example 2: caught division_by_zero",
			"Example 2: cleanup always runs",
			"Example 3: cleanup still runs",
			"Example 3: not handled here: index_out_of_range",
			"Example 4: exit skipped",
		} {
			assert.Contains(t, s, want)
		}
		assert.Less(t, strings.Index(s, "Example 3: cleanup still runs"), strings.Index(s, "Example 3: not handled here"))
	})

	t.Run("with exit", func(t *testing.T) {
		var out bytes.Buffer
		var codes []int
		Finally(&out, func(code int) { codes = append(codes, code) })
		assert.Equal(t, []int{0}, codes)
		assert.NotContains(t, out.String(), "exit skipped")
	})
}

func TestResources(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "example.txt", []byte("first line\nsecond line\n"), 0o644))

	var out bytes.Buffer
	res := Resources(&out, fsys, "example.txt", 0)

	assert.Equal(t, []string{"first line", "first line"}, res.Lines)
	assert.Equal(t, []string{
		"line reader closed", "file example.txt closed",
		"line reader closed", "file example.txt closed",
		"demo resource closed",
	}, res.Released)
	assert.Contains(t, out.String(), "using demo resource")
}

func TestResources_MissingFileIsHandled(t *testing.T) {
	var out bytes.Buffer
	res := Resources(&out, memfs.New(), "absent.txt", 0)

	assert.Empty(t, res.Lines)
	assert.Equal(t, []string{"demo resource closed"}, res.Released)
	assert.Contains(t, out.String(), "handled: resource_not_found")
}

func TestResources_EmptyFileIsHandled(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "empty.txt", nil, 0o644))

	var out bytes.Buffer
	res := Resources(&out, fsys, "empty.txt", 0)

	assert.Empty(t, res.Lines)
	assert.Contains(t, out.String(), "handled: resource_unavailable: empty.txt is empty")
	assert.Equal(t, "file empty.txt closed", res.Released[1])
}

func TestBank(t *testing.T) {
	t.Run("insufficient funds", func(t *testing.T) {
		var out bytes.Buffer
		assert.Equal(t, 10, Bank(&out, 10, 12))
		assert.Contains(t, out.String(), "error occurred: insufficient_funds: balance 10, requested 12")
		assert.True(t, strings.HasSuffix(out.String(), "program reached the end\n"))
	})

	t.Run("enough funds", func(t *testing.T) {
		var out bytes.Buffer
		assert.Equal(t, 60, Bank(&out, 100, 40))
		assert.Contains(t, out.String(), "withdrew 40, balance 60")
		assert.Contains(t, out.String(), "program reached the end")
	})

	t.Run("invalid amount is not handled", func(t *testing.T) {
		var out bytes.Buffer
		err := esm.Try(func() { Bank(&out, 100, -5) })
		assert.Equal(t, esm.KindInvalidArgument, esm.KindOf(err))
		assert.Contains(t, out.String(), "program reached the end", "cleanup runs before the error leaves")
	})
}

func TestAccount(t *testing.T) {
	assert.Equal(t, esm.CategoryDomain, KindInsufficientFunds.Category())

	acct := NewAccount(50)
	require.NoError(t, acct.TryWithdraw(20))
	assert.Equal(t, 30, acct.Balance())

	err := acct.TryWithdraw(31)
	assert.True(t, esm.HasKind(err, KindInsufficientFunds))
	assert.Equal(t, 30, acct.Balance())

	assert.Equal(t, esm.KindInvalidArgument, esm.KindOf(esm.Try(func() { NewAccount(-1) })))
}
