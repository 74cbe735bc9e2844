// protect.go — protected regions: handler dispatch plus explicit cleanup.
//
// A region walks a fixed state machine:
//
//	Entered → Running → {Completed | Raised} → CleanupRun → {ResumedAfter | Propagating}
//
// The block runs inside call, which recovers a raise and hands it back as a
// value. Dispatch, handler actions and cleanup therefore run in normal
// (non-deferred) context. A failing predicate or a raise from a handler action
// starts a fresh propagation toward the next outer region once this region's
// cleanup ran.
package esm

// State is a step of a protected region's lifecycle.
type State int

const (
	StateEntered State = iota
	StateRunning
	StateCompleted
	StateRaised
	StateCleanupRun
	StateResumedAfter
	StatePropagating
)

var stateNames = [...]string{
	StateEntered:      "entered",
	StateRunning:      "running",
	StateCompleted:    "completed",
	StateRaised:       "raised",
	StateCleanupRun:   "cleanup_run",
	StateResumedAfter: "resumed_after",
	StatePropagating:  "propagating",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Option configures a protected region.
type Option func(*region)

// Finally attaches a cleanup block. It runs exactly once after dispatch on
// every exit path: normal completion, handled error, unhandled error, and
// runtime.Goexit. It does not run when the process exits (see Terminal.Exit).
func Finally(fn func()) Option {
	return func(r *region) { r.finally = fn }
}

// Observe reports every state transition of the region to fn.
func Observe(fn func(State)) Option {
	return func(r *region) { r.observe = fn }
}

type region struct {
	finally func()
	observe func(State)
	cleaned bool
}

func (r *region) transition(s State) {
	if r.observe != nil {
		r.observe(s)
	}
}

// cleanup runs the finally block once. A raise from the block replaces the
// in-flight error, which is kept as suppressed.
func (r *region) cleanup(inflight *Error) *Error {
	r.cleaned = true
	if r.finally != nil {
		_, failed := call(func() struct{} {
			r.finally()
			return struct{}{}
		})
		if failed != nil {
			if inflight != nil {
				failed = failed.withSuppressed(inflight)
			}
			inflight = failed
		}
	}
	r.transition(StateCleanupRun)
	return inflight
}

// Protect runs block. If block raises, the first handler whose predicate
// matches runs and its result is returned; with no match the error keeps
// propagating outward. Cleanup from Finally runs after dispatch either way.
func Protect[T any](block func() T, handlers Handlers[T], opts ...Option) (result T) {
	r := &region{}
	for _, opt := range opts {
		opt(r)
	}

	defer func() {
		// Only runtime.Goexit leaves Protect without passing through cleanup.
		if !r.cleaned {
			r.cleanup(nil)
		}
	}()

	r.transition(StateEntered)
	r.transition(StateRunning)

	out, raised := call(block)
	if raised == nil {
		r.transition(StateCompleted)
	} else {
		r.transition(StateRaised)
		h, ok, failed := dispatch(handlers, raised)
		switch {
		case failed != nil:
			raised = failed.withSuppressed(raised)
		case ok:
			caught := raised
			out, raised = call(func() T { return h.Action(caught) })
		}
	}

	if inflight := r.cleanup(raised); inflight != nil {
		r.transition(StatePropagating)
		throw(inflight)
	}
	r.transition(StateResumedAfter)
	return out
}

// dispatch finds the handler for e. A predicate that raises or panics is
// reported as failed; the caller keeps e as suppressed on it.
func dispatch[T any](handlers Handlers[T], e *Error) (h Handler[T], ok bool, failed *Error) {
	_, failed = call(func() struct{} {
		h, ok = handlers.match(e)
		return struct{}{}
	})
	if failed != nil {
		return Handler[T]{}, false, failed
	}
	return h, ok, nil
}

// Run is Protect for blocks without a result.
func Run(block func(), handlers Handlers[struct{}], opts ...Option) {
	Protect(func() struct{} {
		block()
		return struct{}{}
	}, handlers, opts...)
}

// Try runs fn and returns what it raised, or nil.
func Try(fn func()) error {
	_, raised := call(func() struct{} {
		fn()
		return struct{}{}
	})
	if raised == nil {
		return nil
	}
	return raised
}

// call runs fn and reports a raise (or any other panic) as an Error Value.
func call[T any](fn func() T) (out T, raised *Error) {
	defer func() {
		if r := recover(); r != nil {
			raised = toError(r)
		}
	}()
	return fn(), nil
}
