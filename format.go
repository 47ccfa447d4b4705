// format.go — fmt.Formatter implementations for xgx-poison core.
//
// Behavior:
//
//	%s, %v   → concise string (Error()).
//	%+v      → verbose, structured multi-line format:
//	             code=<code> msg="<message>"
//	             ctx: incident=<uuid> kind=<kind> goroutine=<id> at=<frame> time=<rfc3339>
//	             cause: <recursively formatted with %+v>
//	             stack:
//	               funcA file.go:123
//	               funcB other.go:45
//
// Rationale:
//   - Keep core free of logging policy; only fmt formatting.
//   - Deterministic field order via an ordered field list.
//   - Defer cause formatting to fmt with %+v to preserve nested details.
package xgxpoison

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// field is one ordered key-value pair of the verbose context line.
type field struct {
	key string
	val any
}

// formatConcise writes the one-line message (delegates to Error()).
func formatConcise(w io.Writer, e error) {
	// ignore write errors in formatting paths
	_, _ = io.WriteString(w, e.Error())
}

// formatVerbose writes a structured multi-line representation.
// If stk is nil/empty, the stack section is omitted.
// If cause is non-nil, it is formatted with %+v to recurse verbosely.
func formatVerbose(w io.Writer, code Code, msg string, ctx []field, cause error, stk Stack) {
	if code != "" {
		_, _ = fmt.Fprintf(w, "code=%s ", code)
	}
	// Always quote message for clarity (even if empty).
	_, _ = fmt.Fprintf(w, "msg=%q", msg)

	if len(ctx) > 0 {
		_, _ = io.WriteString(w, "\nctx:")
		for _, f := range ctx {
			if f.key != "" {
				_, _ = fmt.Fprintf(w, " %s=%v", f.key, f.val)
			}
		}
	}

	if cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		// Recurse with %+v so nested stacks/contexts render if available.
		_, _ = fmt.Fprintf(w, "%+v", cause)
	}

	if len(stk) > 0 {
		_, _ = io.WriteString(w, "\nstack:")
		for _, fr := range stk {
			_, _ = fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
		}
	}
}

// contextFields flattens a failure context into the ordered verbose fields.
func contextFields(fc *FailureContext) []field {
	if fc == nil {
		return nil
	}
	out := []field{
		{key: "kind", val: fc.Kind()},
		{key: "goroutine", val: fc.Goroutine},
	}
	if fc.Incident != uuid.Nil {
		out = append([]field{{key: "incident", val: fc.Incident}}, out...)
	}
	if !fc.At.IsZero() {
		out = append(out, field{key: "at", val: fc.At})
	}
	if !fc.Time.IsZero() {
		out = append(out, field{key: "time", val: fc.Time.Format(time.RFC3339Nano)})
	}
	return out
}

// -----------------------------------------------------------------------------
// PoisonError formatting
// -----------------------------------------------------------------------------

func (e *PoisonError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			var cause error
			var stk Stack
			if e.fc != nil {
				cause = e.fc.Cause
				stk = e.fc.Stack
			}
			formatVerbose(s, CodePoisoned, e.fc.Message(), contextFields(e.fc), cause, stk)
			return
		}
		formatConcise(s, e)
	case 's':
		formatConcise(s, e)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e)
	}
}

// -----------------------------------------------------------------------------
// inProgressError formatting (no context; carries the holder's entry site)
// -----------------------------------------------------------------------------

func (e *inProgressError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			var ctx []field
			if !e.at.IsZero() {
				ctx = []field{{key: "at", val: e.at}}
			}
			formatVerbose(s, CodeInProgress, ErrInProgress.Error(), ctx, nil, nil)
			return
		}
		formatConcise(s, e)
	case 's':
		formatConcise(s, e)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e)
	}
}
