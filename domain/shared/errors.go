/*
Package shared holds the error-handling idiom common to every domain
package: sentinel errors for errors.Is(), and a stack-capturing wrapper
that defers formatting until something actually wants to log it.

Stack capture happens at construction (inside each package's error
constructors, e.g. domain/order's newOrderError); formatting happens on demand via Stack(), so the common
path of "check the sentinel, move on" never pays for frame resolution.
*/
package shared

import (
	"runtime"
	"strings"
)

// CaptureStack captures the current call stack, skipping the given number
// of frames (Callers, CaptureStack, and the calling constructor).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders captured program counters into printable frames,
// filtering runtime-internal frames and capping at 10 entries.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, frame.Function)
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// Stacker is implemented by errors that can produce a formatted stack on
// demand, so API-layer logging can extract one without knowing the
// concrete error type.
type Stacker interface {
	Stack() []string
}
