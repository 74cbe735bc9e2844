// terminal.go — the process-boundary handler.
//
// Terminal.Run is the outermost region of a program: whatever propagates out
// of it unhandled is reported (full trace included) and the process exits
// with ExitUnhandled.
//
// Terminal.Exit ends the process immediately. Pending cleanup (Finally blocks,
// scope releases) does not run, and neither does it on fatal Go runtime
// failures such as concurrent map writes. Both are known limits of the
// cleanup guarantee.
package esm

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ExitUnhandled is the process status after an unhandled error.
const ExitUnhandled = 1

// ReportFormat selects how the terminal handler writes unhandled errors.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// Terminal reports unhandled errors and ends the process.
type Terminal struct {
	out    io.Writer
	logger *slog.Logger
	exit   func(int)
	format ReportFormat
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithOutput sets where reports are written (default os.Stderr).
func WithOutput(w io.Writer) TerminalOption {
	return func(t *Terminal) {
		if w != nil {
			t.out = w
		}
	}
}

// WithLogger sets the logger that records unhandled errors (default slog.Default()).
func WithLogger(l *slog.Logger) TerminalOption {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithExit replaces os.Exit, mainly for tests.
func WithExit(fn func(int)) TerminalOption {
	return func(t *Terminal) {
		if fn != nil {
			t.exit = fn
		}
	}
}

// WithReportFormat selects text (default) or JSON reports.
func WithReportFormat(f ReportFormat) TerminalOption {
	return func(t *Terminal) {
		if f == ReportText || f == ReportJSON {
			t.format = f
		}
	}
}

// NewTerminal returns a Terminal with the given options applied.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		out:    os.Stderr,
		logger: slog.Default(),
		exit:   os.Exit,
		format: ReportText,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes fn as the outermost region. It returns 0 when fn completes or
// handles everything it raised. Otherwise it reports the error, calls the
// exit function with ExitUnhandled and returns that status (reached only when
// the exit function returns, as in tests).
func (t *Terminal) Run(fn func()) int {
	err := Try(fn)
	if err == nil {
		return 0
	}
	e := From(err)
	t.Report(e)
	t.exit(ExitUnhandled)
	return ExitUnhandled
}

// Report writes e in the configured format and logs it.
func (t *Terminal) Report(e *Error) {
	switch t.format {
	case ReportJSON:
		if err := json.NewEncoder(t.out).Encode(e); err != nil {
			t.logger.Error("write error report", "error", err)
		}
	default:
		_, _ = fmt.Fprintf(t.out, "unhandled error: %+v\n", e)
	}
	t.logger.Error("unhandled error",
		"error_id", e.ID().String(),
		"kind", string(e.Kind()),
		"category", string(e.Category()),
		"message", e.Message(),
		"frames", len(e.trace),
	)
}

// Exit ends the process with code without running pending cleanup.
func (t *Terminal) Exit(code int) {
	t.exit(code)
}
