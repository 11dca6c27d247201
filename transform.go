package chainz

import (
	"context"
)

// Transform creates a Step that applies a pure transformation function to
// data. Transform is the simplest adapter - use it when your operation
// always succeeds and always produces its result in a predictable way.
//
// The transformation function cannot fail, making Transform ideal for:
//   - Data formatting (uppercase, trimming, rendering)
//   - Mathematical calculations that can't error
//   - Field mapping or restructuring
//   - Adding computed fields
//
// The input and output type parameters become the step's declared type
// labels, shown by chain display. If your transformation might fail
// (parsing, validation), use Apply instead.
//
// Example:
//
//	double := chainz.Transform("double", func(_ context.Context, x float64) float64 {
//	    return x * 2
//	})
func Transform[A, B any](name Name, fn func(context.Context, A) B) *Step {
	return &Step{
		name: name,
		src:  fn,
		in:   typeLabel[A](),
		out:  typeLabel[B](),
		fn: func(ctx context.Context, value any) (any, error) {
			input, err := assertInput[A](name, value)
			if err != nil {
				return nil, err
			}
			return fn(ctx, input), nil
		},
	}
}
