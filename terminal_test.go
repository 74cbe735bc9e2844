// terminal_test.go — verification of the process-boundary handler.
package esm

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitRecorder struct{ codes []int }

func (r *exitRecorder) exit(code int) { r.codes = append(r.codes, code) }

func newTestTerminal(format ReportFormat) (*Terminal, *bytes.Buffer, *bytes.Buffer, *exitRecorder) {
	var out, logs bytes.Buffer
	rec := &exitRecorder{}
	term := NewTerminal(
		WithOutput(&out),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithExit(rec.exit),
		WithReportFormat(format),
	)
	return term, &out, &logs, rec
}

func TestTerminal_SuccessReturnsZero(t *testing.T) {
	t.Parallel()

	term, out, logs, rec := newTestTerminal(ReportText)
	ran := false
	assert.Equal(t, 0, term.Run(func() { ran = true }))
	assert.True(t, ran)
	assert.Empty(t, rec.codes)
	assert.Zero(t, out.Len())
	assert.Zero(t, logs.Len())
}

func TestTerminal_UnhandledTextReport(t *testing.T) {
	t.Parallel()

	term, out, logs, rec := newTestTerminal(ReportText)
	finallyRan := false
	code := term.Run(func() {
		Protect(func() int {
			Raise(KindResourceNotFound, "ledger.txt")
			return 0
		}, Handlers[int]{}, Finally(func() { finallyRan = true }))
	})

	assert.Equal(t, ExitUnhandled, code)
	assert.Equal(t, []int{ExitUnhandled}, rec.codes)
	assert.True(t, finallyRan, "cleanup runs before the terminal handler")
	assert.Contains(t, out.String(), "unhandled error: kind=resource_not_found category=resource")
	assert.Contains(t, out.String(), "trace:")
	assert.Contains(t, out.String(), "TestTerminal_UnhandledTextReport")
	assert.Contains(t, logs.String(), "kind=resource_not_found")
	assert.Contains(t, logs.String(), "error_id=")
}

func TestTerminal_UnhandledJSONReport(t *testing.T) {
	t.Parallel()

	term, out, _, _ := newTestTerminal(ReportJSON)
	code := term.Run(func() { _ = divide(3, 0) })
	require.Equal(t, ExitUnhandled, code)

	var r Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, KindDivisionByZero, r.Kind)
	assert.Equal(t, CategoryArithmetic, r.Category)
	assert.NotEmpty(t, r.ID)
	assert.NotEmpty(t, r.Trace)
}

func TestTerminal_ExitCallsExitFunc(t *testing.T) {
	t.Parallel()

	term, _, _, rec := newTestTerminal(ReportText)
	term.Exit(3)
	assert.Equal(t, []int{3}, rec.codes)
}

func TestNewTerminal_IgnoresInvalidOptions(t *testing.T) {
	t.Parallel()

	term := NewTerminal(WithOutput(nil), WithLogger(nil), WithExit(nil), WithReportFormat("xml"))
	assert.NotNil(t, term.out)
	assert.NotNil(t, term.logger)
	assert.NotNil(t, term.exit)
	assert.Equal(t, ReportText, term.format)
}
