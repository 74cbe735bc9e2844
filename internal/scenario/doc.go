// Package scenario holds the runnable walkthroughs of the esm mechanism:
// handled arithmetic failures, handler ordering, origin traces, propagation
// through callers, explicit cleanup, scoped resources and a domain kind.
//
// Every scenario writes its narration to an io.Writer and returns a result the
// tests can check. Scenarios that demonstrate unhandled errors raise them; the
// caller decides which boundary reports them.
package scenario
