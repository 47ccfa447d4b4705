// codes.go — minimal error code definitions for xgx-poison core.
//
// Intent:
//   - Provide a small set of stable, human-readable classification codes.
//   - Keep semantics open-ended: no recovery/retry policy in core.
//   - Higher-level modules may interpret codes; core does not attach policy.
//
// Conventions (documented, not enforced here):
//   - Codes are lowercase snake_case ASCII.
//   - The empty string means "unspecified" and is never a built-in.
package xgxpoison

// Code classifies poisoning failures into machine-readable categories.
//
// Codes are stringly-typed for stability across serialization boundaries and
// to avoid a central enum with breaking changes.
type Code string

// Entry failures
const (
	// CodePoisoned marks an entry refused because a prior access exited
	// abnormally. The error carries the original FailureContext.
	CodePoisoned Code = "poisoned"

	// CodeInProgress marks a reentrancy misuse: a guard is already
	// outstanding on the container. Programmer error; do not retry blindly.
	CodeInProgress Code = "in_progress"
)

// Failure kinds (what poisoned the container)
const (
	// CodePanic: the access region exited via a panic.
	CodePanic Code = "panic"

	// CodeErr: the container was poisoned with an explicit error
	// (Guard.Fail, TryDo, TryNewCatch).
	CodeErr Code = "error"

	// CodeUnknown: poisoned with no payload available.
	CodeUnknown Code = "unknown"
)

// allBuiltinCodes is the ordered set of codes the core ships with.
// Unexported to avoid exposing mutable slice identity to callers.
var allBuiltinCodes = []Code{
	CodePoisoned,
	CodeInProgress,
	CodePanic,
	CodeErr,
	CodeUnknown,
}

// builtinCodeSet provides O(1) membership checks for built-ins.
var builtinCodeSet = map[Code]struct{}{
	CodePoisoned:   {},
	CodeInProgress: {},
	CodePanic:      {},
	CodeErr:        {},
	CodeUnknown:    {},
}

// BuiltinCodes returns a defensive copy of the built-in codes in a stable order.
func BuiltinCodes() []Code {
	out := make([]Code, len(allBuiltinCodes))
	copy(out, allBuiltinCodes)
	return out
}

// IsBuiltin reports whether c is one of the built-in core codes.
func (c Code) IsBuiltin() bool {
	_, ok := builtinCodeSet[c]
	return ok
}
