package chainz

import (
	"context"
	"fmt"
)

// Result is the verdict produced by a validation check. The zero value is
// success, so checks only need to construct a Result when they have
// something to report. Failed results carry a human-readable reason that
// survives all the way to ValidationError.
type Result struct {
	invalid bool
	reason  string
}

// Success returns the passing verdict. It is the zero Result, provided as
// a named constructor so checks read naturally:
//
//	if _, ok := m["x"]; ok {
//	    return chainz.Success()
//	}
//	return chainz.Fail("No x in data")
func Success() Result {
	return Result{}
}

// Fail returns a failing verdict carrying reason. The reason becomes the
// ValidationError message when Validate rejects the data, so write it for
// the person reading the failure, not for the code raising it.
func Fail(reason string) Result {
	return Result{invalid: true, reason: reason}
}

// Valid reports whether the verdict passed.
func (r Result) Valid() bool {
	return !r.invalid
}

// Reason returns the failure reason, or "" for a passing verdict.
func (r Result) Reason() string {
	return r.reason
}

func (r Result) String() string {
	if r.invalid {
		return fmt.Sprintf("invalid: %s", r.reason)
	}
	return "valid"
}

// ValidationError is returned by Validate when a check rejects the data.
// Its message is exactly the reason supplied to Fail.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Carrier threads validation state through a validator chain. It bundles
// the chain under inspection, the data it would run on, and the verdict
// accumulated so far. Carriers are immutable: each check produces a fresh
// one rather than mutating its input.
type Carrier struct {
	target *Chain
	data   any
	result Result
}

// NewCarrier builds a passing carrier for target and data. Nil data is
// replaced with the target kind's default data, mirroring what Run does,
// so checks always see the data the chain would actually receive.
func NewCarrier(target *Chain, data any) Carrier {
	if data == nil {
		data = target.kind.DefaultData()
	}
	return Carrier{target: target, data: data}
}

// Target returns the chain under validation.
func (c Carrier) Target() *Chain {
	return c.target
}

// Data returns the data the chain would run on.
func (c Carrier) Data() any {
	return c.data
}

// Result returns the verdict accumulated so far.
func (c Carrier) Result() Result {
	return c.result
}

// Check inspects a chain and its candidate data and returns a verdict.
// Checks receive the raw target and data rather than the carrier so they
// stay focused on the question being asked; the carrier plumbing is
// handled by NewCheck.
type Check func(ctx context.Context, target *Chain, data any) Result

// validatorKind groups validator chains under their own observability
// scope, separate from the chains they inspect.
var validatorKind = NewKind("validator")

// NewCheck wraps a check function into a single-step validator. The
// wrapper enforces the short-circuit contract: once any earlier check has
// failed, the carrier passes through untouched and check is never
// invoked, so the first failure reason is the one reported.
//
// A zero Result from check counts as success.
func NewCheck(name Name, check Check) Validator {
	if check == nil {
		panic("chainz: only functions can become checks, got nil")
	}
	step := &Step{
		name: name,
		src:  check,
		in:   typeLabel[Carrier](),
		out:  typeLabel[Carrier](),
		fn: func(ctx context.Context, value any) (any, error) {
			carrier, err := assertInput[Carrier](name, value)
			if err != nil {
				return nil, err
			}
			if !carrier.result.Valid() {
				return carrier, nil
			}
			res := check(ctx, carrier.target, carrier.data)
			return Carrier{target: carrier.target, data: carrier.data, result: res}, nil
		},
	}
	return Validator{validatorKind.New(step)}
}

// EchoValidator returns the no-op validator that every composed validator
// starts from: a single step that passes the carrier through unchanged.
// Kinds that declare no base validator use it, and custom base validators
// typically extend it with Then.
func EchoValidator() Validator {
	return Validator{validatorKind.New(Transform("base_validator", func(_ context.Context, c Carrier) Carrier {
		return c
	}))}
}

// Validator is a chain whose steps operate on Carrier values. It embeds
// the chain it wraps, so everything a chain can do (Run, Explain, Steps,
// Debug) works on a validator too; Then is shadowed to keep composition
// inside the validator world.
type Validator struct {
	*Chain
}

// Then appends another validator's checks after this one, preserving
// check order. Like chain composition it builds a fresh validator and
// leaves both operands untouched.
func (v Validator) Then(next Validator) Validator {
	return Validator{v.Chain.Then(next.Chain)}
}

// Validate runs the validator against target and the data built from
// args via the target kind's Wrap hook. On success it returns the
// validated chain and data, ready to run. A failed check surfaces as a
// *ValidationError whose message is the check's reason; errors from the
// validator chain itself (panics, type mismatches) are returned as-is.
func (v Validator) Validate(ctx context.Context, target *Chain, args ...any) (*Chain, any, error) {
	if target == nil {
		panic("chainz: validation requires a chain to inspect")
	}
	carrier := NewCarrier(target, target.kind.Wrap(args...))
	out, err := v.Chain.Run(ctx, carrier)
	if err != nil {
		return nil, nil, err
	}
	validated, ok := out.(Carrier)
	if !ok {
		return nil, nil, fmt.Errorf("%w: validator produced %T, want %s", ErrTypeMismatch, out, typeLabel[Carrier]())
	}
	if !validated.result.Valid() {
		return nil, nil, &ValidationError{Reason: validated.result.reason}
	}
	return validated.target, validated.data, nil
}

// ValidateAndRun validates target with data and, if every check passes,
// runs the validated chain on the validated data. Run options such as
// WithReport apply to the run, not to validation.
func (v Validator) ValidateAndRun(ctx context.Context, target *Chain, data any, opts ...Option) (any, error) {
	validated, validatedData, err := v.Validate(ctx, target, data)
	if err != nil {
		return nil, err
	}
	return validated.Run(ctx, validatedData, opts...)
}
