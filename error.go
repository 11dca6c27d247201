package chainz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Composition and traversal errors.
var (
	// ErrTypeMismatch indicates a step received input whose dynamic type
	// does not match the adapter's declared input type.
	ErrTypeMismatch = errors.New("input type mismatch")

	// ErrExhausted indicates a Debugger was stepped past the final step.
	ErrExhausted = errors.New("debugger has finished every step")

	// ErrFrozen indicates a write to a chain field after construction.
	// The only sanctioned post-construction write is the first
	// SetDescription call.
	ErrFrozen = errors.New("is frozen and cannot be written to")
)

// Error provides rich context about chain execution failures. It wraps the
// underlying error with information about where and when the failure
// occurred, what data was being processed, and whether the failure was due
// to timeout or cancellation.
//
// Path holds the full route to the failing step, outermost first: the kind
// name, then each enclosing chain's head, then the step that failed. Nested
// runs prepend their own names as the error bubbles up.
type Error struct {
	Timestamp time.Time
	InputData any
	Err       error
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, rendering the failure path and the
// underlying cause: "pipeline -> parse_json: invalid JSON".
func (e *Error) Error() string {
	if len(e.Path) == 0 {
		if e.Err == nil {
			return "chain error"
		}
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", strings.Join(e.Path, " -> "), e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether the failure was caused by a deadline.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled reports whether the failure was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// recoverFromPanic converts a step panic into a *Error so a misbehaving
// step cannot crash the caller. Deferred by every execution entry point.
func recoverFromPanic(result *any, err *error, name Name, input any) {
	if r := recover(); r != nil {
		*result = nil
		*err = &Error{
			Timestamp: time.Now(),
			InputData: input,
			Err:       fmt.Errorf("panic: %v", r),
			Path:      []Name{name},
		}
	}
}
