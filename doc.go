// doc.go — package documentation for esm
//
// Package esm is a small structured error-signaling mechanism: immutable Error
// Values, non-local propagation to the nearest matching handler, ordered
// handler dispatch and guaranteed scoped cleanup. Its tenets:
//   - Interop-first: an Error Value is a plain Go error; errors.Is/As see its
//     cause and any suppressed failures.
//   - Immutable values: nothing mutates an Error after construction, so a value
//     can cross goroutines and pass through any number of handlers.
//   - One raise, one trace: the origin trace is captured when the value is
//     built and never again, so rethrowing keeps it.
//
// # Raising
//
// Raise builds an Error Value and transfers control outward. Nothing between
// the raise point and the nearest matching region runs, except cleanup:
//
//	esm.Raise(esm.KindInvalidArgument, "amount must be positive")
//
// Runtime failures become Error Values at the first boundary they cross:
//
//	+------------------------------------+----------------------+
//	| Runtime panic                      | Kind                 |
//	+------------------------------------+----------------------+
//	| integer divide by zero             | division_by_zero     |
//	| index / slice bounds out of range  | index_out_of_range   |
//	| nil pointer dereference, nil map   | nil_reference        |
//	| any other panic value              | panic                |
//	+------------------------------------+----------------------+
//
// Functions that prefer returned errors use Check/Must to enter the raise
// channel and a deferred Recover to leave it.
//
// # Handling
//
// Handlers are declared most specific first. Declare refuses a list in which a
// broader predicate hides a later one:
//
//	hs := esm.MustDeclare(
//		esm.Catch(esm.OnKind(esm.KindDivisionByZero), func(*esm.Error) string { return "handled" }),
//		esm.Catch(esm.OnCategory(esm.CategoryArithmetic), func(e *esm.Error) string { return e.Message() }),
//	)
//	out := esm.Protect(func() string { return compute() }, hs, esm.Finally(flush))
//
// The first matching handler runs and its result becomes the result of
// Protect. With no match the error keeps propagating. Finally runs exactly once
// after dispatch, on every exit path except process exit.
//
// # Resources
//
// Using binds resources to a block. They are released last acquired first on
// every exit path:
//
//	esm.Using(func(s *esm.Scope) struct{} {
//		f := esm.AcquireCloser(s, func() (billy.File, error) { return fs.Open("ledger") })
//		...
//	})
//
// A release failure during propagation never hides the original error: the
// new error's cause is the in-flight error and the failure is suppressed.
//
// # Terminal handler
//
// Terminal.Run is the outermost region of a program. It reports whatever
// propagates out of it, with the full trace, and exits with ExitUnhandled.
//
// # Concurrency
//
// A raise never crosses goroutines. Protect, Using and Try belong to the
// goroutine that calls them; Error Values may be shared freely.
package esm
