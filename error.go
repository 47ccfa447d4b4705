// error.go — typed errors for xgx-poison core.
//
// Design tenets (shared across xgx cores):
//   - Interop-first: play nicely with errors.Is/As; causes surface via Unwrap.
//   - Minimal surface: no logging/HTTP/JSON in core.
//   - Errors carry the ORIGINAL failure context by pointer; observing a
//     poisoned container never regenerates or overwrites the first cause.
package xgxpoison

import (
	"errors"
	"fmt"
)

// ErrInProgress is the sentinel for reentrancy misuse: Enter was called
// while a guard is already outstanding. The error actually returned wraps
// this sentinel and carries the holder's acquisition site; match with
// errors.Is(err, ErrInProgress).
var ErrInProgress = errors.New("xgxpoison: a guard is already outstanding")

// PoisonError reports that a container is poisoned. It is returned by Enter,
// Get and friends, and always references the FailureContext captured when
// the poisoning happened.
type PoisonError struct {
	fc *FailureContext
}

// Error renders a concise, single-line description of the original failure.
func (e *PoisonError) Error() string {
	var head string
	switch e.fc.Kind() {
	case CodePanic:
		head = "poisoned by a panic: " + e.fc.Message()
	case CodeErr:
		head = "poisoned by an error: " + e.fc.Message()
	default:
		head = "poisoned"
	}
	if e.fc != nil && !e.fc.At.IsZero() {
		return fmt.Sprintf("%s (guard acquired at %s)", head, e.fc.At)
	}
	return head
}

// Unwrap exposes the error the container was poisoned with, if any, so
// errors.Is/As reach the original cause. Panics have no causal error.
func (e *PoisonError) Unwrap() error {
	if e.fc == nil {
		return nil
	}
	return e.fc.Cause
}

// Context returns the shared failure context. The same pointer is handed to
// every observer of one poisoning event.
func (e *PoisonError) Context() *FailureContext { return e.fc }

// CodeVal returns CodePoisoned. The getter is named CodeVal for symmetry
// with the other xgx cores.
func (e *PoisonError) CodeVal() Code { return CodePoisoned }

// inProgressError is the concrete error for reentrancy misuse. It wraps the
// ErrInProgress sentinel and records where the outstanding guard was
// acquired, when known.
type inProgressError struct {
	at Frame
}

func (e *inProgressError) Error() string {
	if e.at.IsZero() {
		return ErrInProgress.Error()
	}
	return fmt.Sprintf("%s (guard acquired at %s)", ErrInProgress.Error(), e.at)
}

func (e *inProgressError) Unwrap() error { return ErrInProgress }
func (e *inProgressError) CodeVal() Code { return CodeInProgress }

// Interface conformance guards.
var (
	_ error                      = (*PoisonError)(nil)
	_ error                      = (*inProgressError)(nil)
	_ interface{ CodeVal() Code } = (*PoisonError)(nil)
	_ interface{ CodeVal() Code } = (*inProgressError)(nil)
)
