// poison_test.go — container lifecycle, catching constructors, and poison
// stickiness.
package xgxpoison

import (
	"errors"
	"fmt"
	"testing"
)

// poisonByPanic drives a guard through a panicking critical section and
// returns the payload that escaped to the caller. The panic is re-raised by
// Exit and swallowed here so the test can keep running.
func poisonByPanic[T any](t *testing.T, p *Poison[T], payload any) (escaped any) {
	t.Helper()
	func() {
		defer func() { escaped = recover() }()
		g, err := p.Enter()
		if err != nil {
			t.Fatalf("Enter before poisoning: unexpected error: %v", err)
		}
		defer g.Exit()
		panic(payload)
	}()
	return escaped
}

func TestHealthyEnterExitCycle(t *testing.T) {
	t.Parallel()

	p := New(42)

	g, err := p.Enter()
	if err != nil {
		t.Fatalf("Enter on healthy container: %v", err)
	}
	if got := *g.Value(); got != 42 {
		t.Fatalf("Value: want=42 got=%d", got)
	}
	*g.Value()++
	g.Exit()

	// A normal release never poisons.
	if p.IsPoisoned() {
		t.Fatal("healthy cycle left container poisoned")
	}
	v, err := p.Get()
	if err != nil {
		t.Fatalf("Get after healthy cycle: %v", err)
	}
	if *v != 43 {
		t.Fatalf("value after guarded increment: want=43 got=%d", *v)
	}
}

func TestPanicThroughGuardPoisons(t *testing.T) {
	t.Parallel()

	p := New("consistent")
	escaped := poisonByPanic(t, p, "lol")

	if escaped != "lol" {
		t.Fatalf("panic payload not re-raised verbatim: got=%v", escaped)
	}
	if !p.IsPoisoned() {
		t.Fatal("panicking exit did not poison")
	}

	_, err := p.Enter()
	if err == nil {
		t.Fatal("Enter on poisoned container succeeded")
	}
	var pe *PoisonError
	if !errors.As(err, &pe) {
		t.Fatalf("want *PoisonError, got %T", err)
	}
	fc := pe.Context()
	if fc == nil || fc.Message() != "lol" {
		t.Fatalf("context missing original payload: %+v", fc)
	}
	if fc.Kind() != CodePanic {
		t.Fatalf("kind: want=%s got=%s", CodePanic, fc.Kind())
	}
	if fc.Goroutine == 0 {
		t.Fatal("context missing goroutine id")
	}
	if fc.At.IsZero() {
		t.Fatal("context missing acquisition site")
	}
	if len(fc.Stack) == 0 {
		t.Fatal("context missing failure stack")
	}
}

func TestPoisonIsStickyAndOriginalContextIsShared(t *testing.T) {
	t.Parallel()

	p := New(0)
	poisonByPanic(t, p, "first cause")

	first := p.PeekPoison()
	if first == nil {
		t.Fatal("PeekPoison returned nil on poisoned container")
	}

	// Repeated observation never regenerates or overwrites the context.
	for i := 0; i < 3; i++ {
		_, err := p.Enter()
		fc := ContextOf(err)
		if fc != first {
			t.Fatalf("observation %d: context regenerated: %p != %p", i, fc, first)
		}
		if fc.Incident != first.Incident {
			t.Fatalf("observation %d: incident drifted", i)
		}
	}
	if p.PeekPoison() != first {
		t.Fatal("PeekPoison transitioned or replaced state")
	}
}

func TestEnterIgnoringPoisonRecovers(t *testing.T) {
	t.Parallel()

	p := New(43)
	poisonByPanic(t, p, "lol")

	g, err := p.EnterIgnoringPoison()
	if err != nil {
		t.Fatalf("EnterIgnoringPoison on poisoned container: %v", err)
	}
	// Restore the invariant while holding the acknowledged guard.
	*g.Value() = 42
	g.Exit()

	if p.IsPoisoned() {
		t.Fatal("normal release after recovery left container poisoned")
	}
	if p.PeekPoison() != nil {
		t.Fatal("recovery did not clear the stored context")
	}
	v, err := p.Get()
	if err != nil || *v != 42 {
		t.Fatalf("recovered value: want=42 got=%v err=%v", v, err)
	}
}

func TestEnterFailsWhileGuardOutstanding(t *testing.T) {
	t.Parallel()

	p := New(0)
	g, err := p.Enter()
	if err != nil {
		t.Fatalf("first Enter: %v", err)
	}

	for _, enter := range []struct {
		name string
		call func() (*Guard[int], error)
	}{
		{name: "Enter", call: p.Enter},
		{name: "EnterIgnoringPoison", call: p.EnterIgnoringPoison},
	} {
		_, err := enter.call()
		if err == nil {
			t.Fatalf("%s succeeded while a guard is outstanding", enter.name)
		}
		if !errors.Is(err, ErrInProgress) {
			t.Fatalf("%s: want ErrInProgress, got %v", enter.name, err)
		}
	}

	g.Exit()
	if _, err := p.Enter(); err != nil {
		t.Fatalf("Enter after release: %v", err)
	}
}

func TestNewCatch(t *testing.T) {
	t.Parallel()

	t.Run("normal completion wraps the value", func(t *testing.T) {
		p := NewCatch(func() int { return 42 })
		if p.IsPoisoned() {
			t.Fatal("successful init poisoned")
		}
		v, err := p.Get()
		if err != nil || *v != 42 {
			t.Fatalf("Get: want=42 got=%v err=%v", v, err)
		}
	})

	t.Run("panicking init poisons with no accessible value", func(t *testing.T) {
		p := NewCatch(func() string { panic("couldn't make a value to store") })
		if !p.IsPoisoned() {
			t.Fatal("panicking init did not poison")
		}
		if _, err := p.Get(); !IsPoisoned(err) {
			t.Fatalf("Get on failed init: want poison error, got %v", err)
		}
		if _, err := p.Enter(); !IsPoisoned(err) {
			t.Fatalf("Enter on failed init: want poison error, got %v", err)
		}
		fc := p.PeekPoison()
		if fc.Message() != "couldn't make a value to store" {
			t.Fatalf("payload not preserved: %q", fc.Message())
		}
	})
}

func TestTryNewCatch(t *testing.T) {
	t.Parallel()

	errInit := errors.New("dependency down")

	tests := []struct {
		name       string
		init       func() (int, error)
		wantPoison bool
		wantKind   Code
	}{
		{
			name: "ok",
			init: func() (int, error) { return 7, nil },
		},
		{
			name:       "error",
			init:       func() (int, error) { return 0, errInit },
			wantPoison: true,
			wantKind:   CodeErr,
		},
		{
			name:       "panic",
			init:       func() (int, error) { panic("lol") },
			wantPoison: true,
			wantKind:   CodePanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TryNewCatch(tt.init)
			if p.IsPoisoned() != tt.wantPoison {
				t.Fatalf("IsPoisoned: want=%v got=%v", tt.wantPoison, p.IsPoisoned())
			}
			if !tt.wantPoison {
				v, err := p.Get()
				if err != nil || *v != 7 {
					t.Fatalf("Get: want=7 got=%v err=%v", v, err)
				}
				return
			}
			if got := p.PeekPoison().Kind(); got != tt.wantKind {
				t.Fatalf("kind: want=%s got=%s", tt.wantKind, got)
			}
			if tt.wantKind == CodeErr {
				// The init error is the causal parent of the poison error.
				_, err := p.Get()
				if !errors.Is(err, errInit) {
					t.Fatalf("poison error does not unwrap to init error: %v", err)
				}
			}
		})
	}
}

func TestPoisonErrorPropagatesAsPlainError(t *testing.T) {
	t.Parallel()

	tryWith := func(p *Poison[int]) error {
		g, err := p.Enter()
		if err != nil {
			return fmt.Errorf("acquire counter: %w", err)
		}
		defer g.Exit()
		return nil
	}

	if err := tryWith(New(42)); err != nil {
		t.Fatalf("healthy container: %v", err)
	}
	err := tryWith(NewCatch(func() int { panic("lol") }))
	if !IsPoisoned(err) {
		t.Fatalf("wrapped poison error not detected: %v", err)
	}
	if ContextOf(err) == nil {
		t.Fatal("wrapped poison error lost its context")
	}
}
