// stack.go — call-site and stack capture for xgx-poison core.
//
// Design goals:
//   - Interop & correctness: use runtime.Callers + runtime.CallersFrames for
//     accurate frame resolution (handles inlining correctly).
//   - Minimal policy: capture happens only on the failure path and at guard
//     acquisition; healthy entry/exit cycles stay allocation-light.
//   - Pragmatic performance: bounded depth, cheap defaults.
package xgxpoison

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// Frame represents a single call site.
type Frame struct {
	PC       uintptr // program counter of the call return
	File     string  // absolute file path (as provided by runtime)
	Line     int     // line number
	Function string  // fully-qualified function name (pkg.Func or method)
}

// IsZero reports whether the frame carries no location information.
func (f Frame) IsZero() bool { return f.PC == 0 && f.File == "" }

// String renders "pkg.Func file.go:123", or "<unknown>" for a zero frame.
func (f Frame) String() string {
	if f.IsZero() {
		return "<unknown>"
	}
	if f.Function == "" {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
}

// Stack is a slice of Frames from most recent call outward.
type Stack []Frame

// defaultMaxDepth is a conservative bound that captures meaningful context
// without excessive work on exceptional paths.
const defaultMaxDepth = 64

// callerFrame resolves the single frame 'skip' levels above the caller of
// callerFrame. skip=0 is the immediate caller's caller; guard constructors
// use it to record the user-visible acquisition site.
func callerFrame(skip int) Frame {
	// +2 skips runtime.Callers and callerFrame itself.
	var pc [1]uintptr
	if runtime.Callers(skip+2, pc[:]) == 0 {
		return Frame{}
	}
	fr, _ := runtime.CallersFrames(pc[:]).Next()
	return Frame{PC: fr.PC, File: fr.File, Line: fr.Line, Function: fr.Function}
}

// captureStackDefault captures a stack skipping 'skip' frames, with a
// conservative default depth bound.
func captureStackDefault(skip int) Stack {
	return captureStack(skip, defaultMaxDepth)
}

// captureStack captures up to maxDepth frames, skipping 'skip' initial frames.
//
// Skip accounting:
//   - +1 for runtime.Callers itself
//   - +1 for captureStack
//   - +1 for captureStackDefault
//
// so the first recorded frame lands at (or very near) the internal capture
// site; capturers pass additional skips to reach the user-visible frame.
func captureStack(skip, maxDepth int) Stack {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+3, pc)
	if n == 0 {
		return nil
	}
	pc = pc[:n]

	frames := runtime.CallersFrames(pc)
	out := make(Stack, 0, n)

	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			PC:       fr.PC,
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the numeric ID of the calling goroutine, parsed from
// the runtime.Stack header ("goroutine 123 [running]: ..."). The runtime does
// not expose goroutine IDs on purpose; this is a best-effort diagnostic
// identifier only and is never used for control flow. Returns 0 on parse
// failure.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
