// predicates.go — minimal, stdlib-aligned predicates for xgx-poison core.
//
// Scope:
//   - Zero-policy helpers that answer common classification questions.
//   - Interop-first: use errors.Is / errors.As so traversal works with both
//     single Unwrap() error and multi Unwrap() []error (e.g., errors.Join).
//
// Out of scope (by design): recovery policy. Poisoning is a signal; the
// caller holding an acknowledged guard decides what to do about it.
package xgxpoison

import "errors"

// IsPoisoned reports whether err is (or wraps) a poisoning failure.
func IsPoisoned(err error) bool {
	if err == nil {
		return false
	}
	var pe *PoisonError
	return errors.As(err, &pe)
}

// IsInProgress reports whether err denotes reentrancy misuse: an entry
// refused because a guard was already outstanding.
func IsInProgress(err error) bool {
	return err != nil && errors.Is(err, ErrInProgress)
}

// ContextOf returns the original failure context carried anywhere along
// err's chain, or nil if the chain holds no poisoning failure.
func ContextOf(err error) *FailureContext {
	if err == nil {
		return nil
	}
	var pe *PoisonError
	if errors.As(err, &pe) {
		return pe.Context()
	}
	return nil
}

// CodeOf returns the first discovered Code along err's chain, or "" if none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var cv interface{ CodeVal() Code }
	if errors.As(err, &cv) {
		return cv.CodeVal()
	}
	return ""
}
