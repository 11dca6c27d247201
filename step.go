package chainz

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

const labelAny = "any"

// Step is a named unit of work: a single-input, single-output function
// wrapped with the metadata a chain needs to execute and display it.
//
// Steps are immutable values created through the adapter constructors
// (Transform, Apply, Effect) or NewStep. The function field is private so
// steps only come from those constructors, keeping error handling and
// input assertion consistent.
//
// Each step carries declared input and output type labels used for chain
// display. The typed adapters capture labels from their type parameters at
// construction; NewStep defaults both to "any" unless WithLabels overrides
// them. Labels are display metadata only and never affect execution.
//
// Best practices for step names:
//   - Use descriptive, action-oriented names ("validate_email", not "email")
//   - Keep names concise; they appear in traces, Explain output, and
//     Error.Path
//   - Store them as Name constants
type Step struct {
	fn   func(context.Context, any) (any, error)
	src  any
	name Name
	in   string
	out  string
}

// StepOption adjusts optional step metadata at construction.
type StepOption func(*Step)

// WithLabels sets the declared input and output type labels shown by chain
// display. Empty strings leave the existing labels in place.
func WithLabels(in, out string) StepOption {
	return func(s *Step) {
		if in != "" {
			s.in = in
		}
		if out != "" {
			s.out = out
		}
	}
}

// NewStep creates a Step from an erased function. This is the constructor
// for heterogeneous glue where the typed adapters cannot express the
// signature; prefer Transform, Apply, or Effect for ordinary steps.
//
// A nil fn is a programming error and panics.
func NewStep(name Name, fn func(context.Context, any) (any, error), opts ...StepOption) *Step {
	if fn == nil {
		panic("chainz: only functions can become steps, got nil")
	}
	s := &Step{
		fn:   fn,
		src:  fn,
		name: name,
		in:   labelAny,
		out:  labelAny,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's given name, which may be empty for steps that
// rely on a derived display name.
func (s *Step) Name() Name {
	return s.name
}

// InputLabel returns the declared input type label.
func (s *Step) InputLabel() string {
	return s.in
}

// OutputLabel returns the declared output type label.
func (s *Step) OutputLabel() string {
	return s.out
}

// String returns the step's display name.
func (s *Step) String() string {
	return s.displayName()
}

// invoke runs the wrapped function. Callers own panic recovery.
func (s *Step) invoke(ctx context.Context, data any) (any, error) {
	return s.fn(ctx, data)
}

// displayName resolves the name shown in traces and Explain output.
// Preference order: the explicit name, the wrapped function's qualified
// runtime symbol, then a generic form built from the type labels.
func (s *Step) displayName() string {
	if s.name != "" {
		return s.name
	}
	if n := funcName(s.src); n != "" {
		return n
	}
	return fmt.Sprintf("step[%s -> %s]", s.in, s.out)
}

// typeLabel renders the display label for a type parameter. Interface
// types without methods degrade to the "any" placeholder.
func typeLabel[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return labelAny
	}
	return strings.ReplaceAll(t.String(), "interface {}", labelAny)
}

// assertInput narrows an erased value to a typed adapter's input type.
// A nil value passes when the target is an interface type; any other
// mismatch reports the expected label and the actual dynamic type.
func assertInput[A any](name Name, value any) (A, error) {
	if input, ok := value.(A); ok {
		return input, nil
	}
	var zero A
	if value == nil && reflect.TypeOf(zero) == nil {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: step %q expects %s, got %T", ErrTypeMismatch, name, typeLabel[A](), value)
}

// funcName resolves a function value's runtime symbol, trimmed of its
// package path and method-value suffix. Returns "" when the symbol cannot
// be resolved.
func funcName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
