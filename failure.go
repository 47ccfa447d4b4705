// failure.go — immutable failure-context capture for xgx-poison core.
//
// A FailureContext describes the ORIGINAL cause of a poisoning event:
// the panic payload or error, which goroutine raised it, where the guard was
// acquired, and a stack captured at the point of failure. Contexts are
// immutable once created and shared by pointer, so every later observer of a
// poisoned container reports the first failure rather than a secondary
// symptom.
package xgxpoison

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FailureContext captures the cause of a poisoning event. All fields are
// set at capture time and never mutated; the value is safe to share across
// goroutines.
type FailureContext struct {
	// Incident is a UUIDv7 correlation ID for this poisoning event. Two
	// observations of the same poisoned container always report the same
	// incident.
	Incident uuid.UUID

	// PanicValue is the panic payload, verbatim, when the poisoning came
	// from a panic. Nil otherwise.
	PanicValue any

	// Cause is the error the container was poisoned with, when the
	// poisoning came from TryDo, Guard.Fail or TryNewCatch. Nil otherwise.
	Cause error

	// Goroutine identifies the goroutine that poisoned (best effort, 0 if
	// unknown). Diagnostic only.
	Goroutine uint64

	// At is where the poisoning guard was acquired, when known.
	At Frame

	// Stack holds frames captured at the point of failure.
	Stack Stack

	// Time is the capture instant.
	Time time.Time
}

// Kind classifies the failure: CodePanic, CodeErr, or CodeUnknown when the
// context carries no payload.
func (fc *FailureContext) Kind() Code {
	switch {
	case fc == nil:
		return CodeUnknown
	case fc.PanicValue != nil:
		return CodePanic
	case fc.Cause != nil:
		return CodeErr
	default:
		return CodeUnknown
	}
}

// Message renders the triggering payload as text: the panic payload for
// panics, the error text for errors, "<unknown>" otherwise.
func (fc *FailureContext) Message() string {
	switch {
	case fc == nil:
		return "<unknown>"
	case fc.PanicValue != nil:
		return renderPayload(fc.PanicValue)
	case fc.Cause != nil:
		return fc.Cause.Error()
	default:
		return "<unknown>"
	}
}

// capturePanic builds the context for a panicking exit. Called with the
// recovered payload while the stack above the guard is still intact, so the
// captured frames point into the failing critical section.
func capturePanic(payload any, at Frame) *FailureContext {
	fc := newContext(at)
	fc.PanicValue = payload
	// +1 to skip capturePanic itself.
	fc.Stack = captureStackDefault(1)
	return fc
}

// captureErr builds the context for an explicit error poisoning.
func captureErr(cause error, at Frame) *FailureContext {
	fc := newContext(at)
	fc.Cause = cause
	fc.Stack = captureStackDefault(1)
	return fc
}

func newContext(at Frame) *FailureContext {
	// uuid.NewV7 only fails if the random source does; a zero incident ID
	// is preferable to panicking inside failure capture.
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.Nil
	}
	return &FailureContext{
		Incident:  id,
		Goroutine: goroutineID(),
		At:        at,
		Time:      time.Now(),
	}
}

// renderPayload turns an arbitrary panic payload into text without losing
// the common cases: strings stay verbatim, errors render via Error().
func renderPayload(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case error:
		return p.Error()
	case fmt.Stringer:
		return p.String()
	default:
		return fmt.Sprintf("%v", p)
	}
}
