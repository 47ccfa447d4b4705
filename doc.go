// doc.go — package documentation for xgx-poison
//
// Package xgxpoison provides a poisoning primitive: a generic container that
// detects when a critical section accessing its value exited via a panic
// rather than normal control flow, and thereafter blocks access to the value
// until a caller explicitly acknowledges the failure. It is designed to be:
//   - Composable: higher-level primitives (mutexes, lazy cells) wrap it and
//     inherit consistent, debuggable poisoning instead of ad-hoc recover logic
//   - Interoperable with the stdlib (errors.Is/As, fmt.Formatter)
//   - Policy-free (no logging/retry/recovery rules in core)
//
// # The Poisoning Discipline
//
// A Poison[T] owns a value and a tri-state marker: healthy, in-progress, or
// poisoned. Enter transitions to in-progress and hands out a Guard; releasing
// the guard transitions back:
//
//	p := xgxpoison.New(Account{})
//
//	g, err := p.Enter()
//	if err != nil {
//	    return err // poisoned by a previous panic, or a guard is outstanding
//	}
//	defer g.Exit()
//
//	g.Value().Balance += 10
//
// If a panic unwinds through the guard's scope, Exit records a FailureContext
// (panic payload, goroutine, acquisition site, stack) and re-raises the
// original panic value verbatim. Every later Enter fails with a *PoisonError
// carrying the ORIGINAL context, never a regenerated one, until the poison is
// explicitly cleared with EnterIgnoringPoison.
//
// IMPORTANT: Exit must be deferred directly (`defer g.Exit()`). Go's recover
// only observes an in-flight panic from a directly deferred call; wrapping
// Exit in another function would make a panicking exit look like a normal
// one. Callers who cannot guarantee a direct defer should use the closure
// forms Do and TryDo, which manage the guard internally.
//
// # Acquisition Strategies
//
// Two strategies coexist, mirroring the two ways critical sections fail:
//
//   - Guard form (Enter/Exit): poison is decided by how the scope exits.
//     Panics always re-propagate; the container never swallows a failure.
//   - Catch form (TryDo): a closure returning an error poisons the container
//     and the error comes back wrapped in a *PoisonError. Panics still
//     re-propagate. NewCatch and TryNewCatch apply the same catch discipline
//     to one-time initialization, so a failed lazy init is reported to
//     callers instead of crashed into.
//
// # Reentrancy Is Not Exclusion
//
// Poison[T] does not serialize concurrent entry; that is the job of the
// composing lock. The ErrInProgress failure from Enter is a misuse signal for
// reentrancy (a guard is already outstanding), not a queueing mechanism. The
// check itself is race-reliable (atomics), so concurrent misuse fails loudly
// rather than silently corrupting state.
//
// # Abrupt-Failure-Safe Bulk Construction
//
// InitSlice and TryInitSlice build a fixed-length slice element by element
// and guarantee a single, well-defined cleanup point: if construction fails
// at index k, a teardown callback receives exactly the k already-built
// elements before the original failure re-propagates. Nothing leaks, and the
// cleanup code never sees an element that was not constructed.
//
// # Diagnostics
//
// *PoisonError implements fmt.Formatter:
//   - %v, %s → concise, single-line Error()
//   - %+v    → verbose, multi-line (code, msg, incident, goroutine,
//     acquisition site, cause, stack)
//
// FailureContext values are immutable once captured and cheap to share
// across goroutines; a failure captured on one goroutine is legible to a
// recovery attempt on another. Each context carries a UUIDv7 incident ID so
// one poisoning event can be correlated across log lines.
//
// See examples in example_test.go for a poisoning mutex and a lazy global.
package xgxpoison
