// state.go — the poisoning state machine for xgx-poison core.
//
// The marker is a single atomic word plus an atomic pointer to the shared
// FailureContext. Spec of the machine:
//
//	healthy     --enter-->  inProgress
//	inProgress  --exit-->   healthy       (normal release)
//	inProgress  --poison--> poisoned(fc)  (panicking release / explicit Fail)
//	poisoned    --clear-->  inProgress    (explicit recovery only)
//
// Poison state never resets itself; only an explicit recovery entry clears
// it. Ordinary use is linearized by the composing lock, but the transitions
// are atomic so concurrent misuse (reentrancy without exclusion) fails with
// a typed error instead of racing.
package xgxpoison

import "sync/atomic"

const (
	stateHealthy int32 = iota
	stateInProgress
	statePoisoned
)

type poisonState struct {
	word atomic.Int32

	// fc is non-nil exactly while word == statePoisoned. Stored before the
	// word transitions to poisoned, so any reader that observes the
	// poisoned word also observes the context.
	fc atomic.Pointer[FailureContext]

	// entry records where the outstanding guard was acquired, for the
	// ErrInProgress diagnostic. Best effort; cleared on release.
	entry atomic.Pointer[Frame]
}

// enter attempts healthy → inProgress. ignorePoison additionally permits
// poisoned → inProgress, clearing the stored context (explicit recovery).
// Returns the typed entry failure on refusal.
func (s *poisonState) enter(at Frame, ignorePoison bool) error {
	for {
		switch w := s.word.Load(); w {
		case stateHealthy, statePoisoned:
			if w == statePoisoned && !ignorePoison {
				return &PoisonError{fc: s.fc.Load()}
			}
			if s.word.CompareAndSwap(w, stateInProgress) {
				s.fc.Store(nil)
				s.entry.Store(&at)
				return nil
			}
			// Lost the race; re-read.
		case stateInProgress:
			e := &inProgressError{}
			if held := s.entry.Load(); held != nil {
				e.at = *held
			}
			return e
		}
	}
}

// exit performs inProgress → healthy. Only the guard holder calls it.
func (s *poisonState) exit() {
	s.entry.Store(nil)
	s.word.Store(stateHealthy)
}

// poison performs inProgress → poisoned(fc). Only the guard holder (or the
// catching constructors, which own the container exclusively) calls it.
func (s *poisonState) poison(fc *FailureContext) {
	s.entry.Store(nil)
	s.fc.Store(fc)
	s.word.Store(statePoisoned)
}

func (s *poisonState) isPoisoned() bool { return s.word.Load() == statePoisoned }

// peek returns the stored context, nil while not poisoned. Never transitions.
func (s *poisonState) peek() *FailureContext { return s.fc.Load() }
