// guard.go — the scoped access handle for xgx-poison core.
package xgxpoison

import "sync/atomic"

// Guard is a scoped borrow of a Poison[T]'s value. Exactly one live guard
// exists per container while its state is in-progress; the guard exclusively
// owns write access to the value until released.
//
// Release discipline: call Exit on every exit path, via a direct
// `defer g.Exit()`. Exit decides the state transition from how the scope
// exited — normal return restores healthy, a panic poisons and re-raises.
type Guard[T any] struct {
	p    *Poison[T]
	at   Frame
	done atomic.Bool
}

// Value returns the guarded value. The pointer must not outlive the guard's
// scope; the guard does not interpret reads or writes through it.
func (g *Guard[T]) Value() *T { return &g.p.value }

// AcquiredAt reports where Enter was called, as recorded on the guard.
func (g *Guard[T]) AcquiredAt() Frame { return g.at }

// Exit releases the guard.
//
// Exit must be deferred directly (`defer g.Exit()`): it calls recover to
// detect a panic unwinding through the guard's scope, and recover only
// observes the panic from a directly deferred call. On a panicking exit the
// container transitions to poisoned with a freshly captured FailureContext
// and the original panic value is re-raised verbatim. On a normal exit the
// container returns to healthy.
//
// Exit after the guard was already released (including after Fail) is a
// no-op, so the usual defer remains correct alongside an explicit release.
func (g *Guard[T]) Exit() {
	if g == nil || !g.done.CompareAndSwap(false, true) {
		return
	}
	if r := recover(); r != nil {
		g.p.state.poison(capturePanic(r, g.at))
		panic(r)
	}
	g.p.state.exit()
}

// Fail releases the guard, poisoning the container with err as the cause.
// Use it when the critical section has detected corruption it cannot undo
// without panicking. Returns the *PoisonError later observers will see.
func (g *Guard[T]) Fail(err error) *PoisonError {
	if g == nil || !g.done.CompareAndSwap(false, true) {
		return nil
	}
	fc := captureErr(err, g.at)
	g.p.state.poison(fc)
	return &PoisonError{fc: fc}
}
