// format.go — fmt.Formatter and JSON rendering for Error Values.
//
// Behavior:
//
//	%s, %v   → concise Error().
//	%q       → quoted Error().
//	%+v      → verbose, multi-line:
//	             kind=<kind> category=<category> msg="<message>" id=<uuid>
//	             trace:
//	               pkg.level3 /path/file.go:42
//	             cause: <cause with %+v>
//	             suppressed: <each with %+v>
package esm

import (
	"encoding/json"
	"fmt"
	"io"
)

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			e.formatVerbose(s)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}

func (e *Error) formatVerbose(w io.Writer) {
	_, _ = fmt.Fprintf(w, "kind=%s category=%s msg=%q", e.kind, e.kind.Category(), e.msg)
	if !e.sentinel {
		_, _ = fmt.Fprintf(w, " id=%s", e.id)
	}

	if len(e.trace) > 0 {
		_, _ = io.WriteString(w, "\ntrace:")
		for _, f := range e.trace {
			_, _ = fmt.Fprintf(w, "\n  %s %s:%d", f.Function, f.File, f.Line)
		}
	}

	if e.cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		_, _ = fmt.Fprintf(w, "%+v", e.cause)
	}

	for _, s := range e.suppressed {
		_, _ = io.WriteString(w, "\nsuppressed: ")
		_, _ = fmt.Fprintf(w, "%+v", s)
	}
}

// Report is the serializable form of an error graph. Foreign errors only
// carry Message.
type Report struct {
	ID         string    `json:"id,omitempty"`
	Kind       Kind      `json:"kind,omitempty"`
	Category   Category  `json:"category,omitempty"`
	Message    string    `json:"message"`
	Trace      []Frame   `json:"trace,omitempty"`
	Cause      *Report   `json:"cause,omitempty"`
	Suppressed []*Report `json:"suppressed,omitempty"`
}

// maxReportDepth stops runaway foreign wrapper chains.
const maxReportDepth = 32

// NewReport builds the Report of err, or nil if err is nil.
func NewReport(err error) *Report {
	return newReport(err, 0)
}

func newReport(err error, depth int) *Report {
	if err == nil || depth >= maxReportDepth {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return &Report{Message: err.Error()}
	}
	r := &Report{
		Kind:     e.kind,
		Category: e.kind.Category(),
		Message:  e.msg,
		Trace:    e.Trace(),
		Cause:    newReport(e.cause, depth+1),
	}
	if !e.sentinel {
		r.ID = e.id.String()
	}
	for _, s := range e.suppressed {
		r.Suppressed = append(r.Suppressed, newReport(s, depth+1))
	}
	return r
}

// MarshalJSON encodes the error as its Report.
func (e *Error) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(NewReport(e))
	if err != nil {
		return nil, fmt.Errorf("esm: marshal report: %w", err)
	}
	return data, nil
}
