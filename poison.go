// poison.go — the Poison[T] container for xgx-poison core.
//
// Poison[T] does not manage its own synchronization; it is meant to sit
// inside a mutex or a once-cell that guarantees at most one outstanding
// guard. What it owns is the completion-safety discipline: detect abnormal
// exit, record the original cause, and refuse casual reuse until a caller
// acknowledges the failure.
package xgxpoison

// Poison holds a value that may be poisoned by an abnormal exit from a
// critical section accessing it.
type Poison[T any] struct {
	value T
	state poisonState
}

// New creates a healthy container around v.
func New[T any](v T) *Poison[T] {
	return &Poison[T]{value: v}
}

// NewCatch runs init and wraps its result. If init panics, the payload is
// caught at this boundary and stashed as the container's poison: the
// container holds no valid value, and every access reports the captured
// failure until the poison is explicitly cleared. This supports lazy,
// fallible global initialization whose failure is reported to callers
// instead of crashed into.
func NewCatch[T any](init func() T) (p *Poison[T]) {
	p = &Poison[T]{}
	at := callerFrame(1)
	defer func() {
		if r := recover(); r != nil {
			p.state.poison(capturePanic(r, at))
		}
	}()
	p.value = init()
	return p
}

// TryNewCatch is the fallible variant of NewCatch: a returned error poisons
// the container the same way a panic does, with the error as the cause.
func TryNewCatch[T any](init func() (T, error)) (p *Poison[T]) {
	p = &Poison[T]{}
	at := callerFrame(1)
	defer func() {
		if r := recover(); r != nil {
			p.state.poison(capturePanic(r, at))
		}
	}()
	v, err := init()
	if err != nil {
		p.state.poison(captureErr(err, at))
		return p
	}
	p.value = v
	return p
}

// Enter acquires guarded access to the value.
//
// It fails with a *PoisonError carrying the ORIGINAL failure context if the
// container is poisoned, and with an error matching ErrInProgress if a guard
// is already outstanding (reentrancy misuse; real exclusion belongs to the
// composing lock). On success the returned guard must be released on every
// exit path: `defer g.Exit()`, deferred directly.
func (p *Poison[T]) Enter() (*Guard[T], error) {
	return p.enter(callerFrame(1), false)
}

// EnterIgnoringPoison is Enter for explicit recovery: it succeeds on a
// poisoned container, clearing the poison. The caller is asserting that it
// will restore the value's invariants while holding the guard. Still fails
// on an outstanding guard.
func (p *Poison[T]) EnterIgnoringPoison() (*Guard[T], error) {
	return p.enter(callerFrame(1), true)
}

func (p *Poison[T]) enter(at Frame, ignorePoison bool) (*Guard[T], error) {
	if err := p.state.enter(at, ignorePoison); err != nil {
		return nil, err
	}
	return &Guard[T]{p: p, at: at}, nil
}

// Do runs fn inside a guard. A panic in fn poisons the container and then
// re-propagates; the container never swallows a failure. Use Do when a
// directly-deferred Exit is awkward to guarantee.
func (p *Poison[T]) Do(fn func(v *T)) error {
	g, err := p.Enter()
	if err != nil {
		return err
	}
	defer g.Exit()
	fn(g.Value())
	return nil
}

// TryDo runs a fallible fn inside a guard: the catch strategy. An error
// returned by fn poisons the container and comes back wrapped in a
// *PoisonError; a panic still poisons and re-propagates.
func (p *Poison[T]) TryDo(fn func(v *T) error) error {
	g, err := p.Enter()
	if err != nil {
		return err
	}
	defer g.Exit()
	if err := fn(g.Value()); err != nil {
		return g.Fail(err)
	}
	return nil
}

// IsPoisoned reports whether the container is poisoned. Never transitions
// state.
func (p *Poison[T]) IsPoisoned() bool { return p.state.isPoisoned() }

// PeekPoison returns the stored failure context, or nil while the container
// is not poisoned. Never transitions state; repeated calls on the same
// poisoning return the same context.
func (p *Poison[T]) PeekPoison() *FailureContext { return p.state.peek() }

// Get returns the value without taking a guard, for read-only access to
// lazily initialized state (see the lazy example). It fails with the stored
// *PoisonError if the container is poisoned — in particular after a failed
// NewCatch, when no valid value exists. Mutating through Get bypasses the
// poisoning discipline; use Enter for writes.
func (p *Poison[T]) Get() (*T, error) {
	if fc := p.state.peek(); fc != nil {
		return nil, &PoisonError{fc: fc}
	}
	return &p.value, nil
}
