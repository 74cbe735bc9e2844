package scenario

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/xgx-io/esm"
)

// Ledger records release events in the order they happen.
type Ledger struct {
	w      io.Writer
	events []string
}

// NewLedger returns a Ledger that also narrates to w.
func NewLedger(w io.Writer) *Ledger { return &Ledger{w: w} }

func (l *Ledger) record(event string) {
	l.events = append(l.events, event)
	fmt.Fprintln(l.w, event)
	slog.Debug("resource released", "event", event)
}

// Events returns the recorded events.
func (l *Ledger) Events() []string { return append([]string(nil), l.events...) }

// DemoResource is a custom resource: anything with a Close method can be
// bound to a scope.
type DemoResource struct {
	ledger *Ledger
	delay  time.Duration
}

// Use does the resource's work.
func (r *DemoResource) Use() {
	fmt.Fprintln(r.ledger.w, "using demo resource")
}

// Close releases the resource after the configured delay.
func (r *DemoResource) Close() error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.ledger.record("demo resource closed")
	return nil
}

// ledgerFile wraps a billy file so its release is recorded.
type ledgerFile struct {
	billy.File
	ledger *Ledger
}

func (f ledgerFile) Close() error {
	err := f.File.Close()
	f.ledger.record("file " + f.Name() + " closed")
	return err
}

// ResourcesResult is what Resources read and released.
type ResourcesResult struct {
	Lines    []string
	Released []string
}

// Resources reads the first line of name twice, each time with a file and a
// line reader bound to a scope, then uses a custom resource the same way.
// Resources are released last acquired first. A missing file is handled and
// reported, and the walkthrough continues.
func Resources(w io.Writer, fsys billy.Filesystem, name string, delay time.Duration) ResourcesResult {
	ledger := NewLedger(w)
	var res ResourcesResult

	ioFailure := esm.MustDeclare(esm.Catch(esm.OnCategory(esm.CategoryResource), func(e *esm.Error) string {
		fmt.Fprintf(w, "handled: %v\n", e)
		return ""
	}))

	for _, label := range []string{"read", "read again"} {
		line := esm.Protect(func() string {
			return esm.Using(func(s *esm.Scope) string {
				return firstLine(s, fsys, name, ledger)
			})
		}, ioFailure)
		if line != "" {
			fmt.Fprintf(w, "%s: %s\n", label, line)
			res.Lines = append(res.Lines, line)
		}
		fmt.Fprintln(w, separator)
	}

	esm.Using(func(s *esm.Scope) struct{} {
		r := esm.AcquireCloser(s, func() (*DemoResource, error) {
			return &DemoResource{ledger: ledger, delay: delay}, nil
		})
		r.Use()
		return struct{}{}
	})

	res.Released = ledger.Events()
	return res
}

func firstLine(s *esm.Scope, fsys billy.Filesystem, name string, ledger *Ledger) string {
	f := esm.AcquireCloser(s, func() (ledgerFile, error) {
		f, err := fsys.Open(name)
		return ledgerFile{File: f, ledger: ledger}, err
	})
	sc := bufio.NewScanner(f)
	s.Defer("line reader", func() error {
		ledger.record("line reader closed")
		return nil
	})

	if !sc.Scan() {
		esm.Check(sc.Err())
		esm.Raisef(esm.KindResourceUnavailable, "%s is empty", name)
	}
	return sc.Text()
}
