// trace.go — origin trace capture for Error Values.
//
// Design goals:
//   - Use runtime.Callers + runtime.CallersFrames for accurate frame resolution
//     (inlined calls are expanded correctly).
//   - Capture exactly once, when the Error Value is built; never touch it again.
//   - Report the user's call path only: frames of this package (outside its
//     tests) and of the Go runtime are left out, and capture stops at the
//     innermost boundary (Protect, Using, Try, Terminal.Run) enclosing the raise.
//   - Recognise this package's frames by source directory first: an inlined
//     closure keeps its file but takes its caller's function name.
package esm

import (
	"fmt"
	"path"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// Frame is a single call site in a Trace.
type Frame struct {
	Function string `json:"function"` // fully-qualified (pkg.Func or pkg.(*T).Method)
	File     string `json:"file"`     // absolute path as reported by the runtime
	Line     int    `json:"line"`
}

// String renders the frame as "pkg.Func(file.go:12)".
func (f Frame) String() string {
	return fmt.Sprintf("%s(%s:%d)", f.Function, filepath.Base(f.File), f.Line)
}

// Name returns the function name without its package path.
func (f Frame) Name() string {
	name := f.Function
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Trace is the call path of a raise, innermost frame first.
type Trace []Frame

// String renders one frame per line, innermost first.
func (t Trace) String() string {
	var sb strings.Builder
	for i, f := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}

// Functions returns the short function name of every frame, innermost first.
func (t Trace) Functions() []string {
	out := make([]string, len(t))
	for i, f := range t {
		out[i] = f.Name()
	}
	return out
}

const (
	// maxTraceDepth bounds how many raw frames a capture inspects.
	maxTraceDepth = 64

	gopanic = "runtime.gopanic"
)

// mechanismPrefix is the function-name prefix of this package's own frames.
var mechanismPrefix = reflect.TypeOf(Error{}).PkgPath() + "."

// mechanismDir is the source directory of this package. Runtime file paths
// always use forward slashes.
var mechanismDir = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return path.Dir(file)
}()

func isMechanism(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	if mechanismDir != "" && f.File != "" && path.Dir(f.File) == mechanismDir {
		return true
	}
	return strings.HasPrefix(f.Function, mechanismPrefix)
}

func isRuntime(f runtime.Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.")
}

// captureTrace records the caller's call path.
//
// skip counts frames above the caller of captureTrace, as in runtime.Callers.
// When fromPanic is set the capture runs inside a deferred recover and the
// trace starts at the frame that panicked (below runtime.gopanic).
func captureTrace(skip int, fromPanic bool) Trace {
	pc := make([]uintptr, maxTraceDepth)
	// +2: runtime.Callers and captureTrace itself.
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}

	raw := make([]runtime.Frame, 0, n)
	frames := runtime.CallersFrames(pc[:n])
	for {
		fr, more := frames.Next()
		raw = append(raw, fr)
		if !more {
			break
		}
	}

	if fromPanic {
		if i := slices.IndexFunc(raw, func(f runtime.Frame) bool { return f.Function == gopanic }); i >= 0 {
			raw = raw[i+1:]
		}
	}
	return userPath(raw)
}

// userPath trims raw frames to the user's call path: leading mechanism and
// runtime frames are dropped, and everything from the first mechanism frame
// after them (the innermost enclosing boundary) outward is cut.
func userPath(raw []runtime.Frame) Trace {
	start := 0
	for start < len(raw) && (isMechanism(raw[start]) || isRuntime(raw[start])) {
		start++
	}
	raw = raw[start:]

	end := slices.IndexFunc(raw, isMechanism)
	if end < 0 {
		end = len(raw)
	}

	out := make(Trace, 0, end)
	for _, fr := range raw[:end] {
		if isRuntime(fr) {
			continue
		}
		out = append(out, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
	}
	return out
}
