package chainz

import (
	"context"
)

// Apply creates a Step from a function that transforms data and may return
// an error. Apply is the workhorse adapter - use it when your
// transformation might fail due to validation, parsing, external calls, or
// business rule violations.
//
// The function receives a context for timeout and cancellation support.
// Long-running operations should check ctx.Err() periodically. On error,
// the run stops immediately and the error is wrapped with debugging
// context.
//
// Apply is ideal for:
//   - Data validation with transformation
//   - Lookups that enhance data
//   - Parsing operations that might fail
//   - Business rule enforcement
//
// For pure transformations that can't fail, use Transform. For side effects
// that leave the data untouched, use Effect.
//
// Example:
//
//	parseJSON := chainz.Apply("parse_json", func(_ context.Context, raw string) (Data, error) {
//	    var data Data
//	    if err := json.Unmarshal([]byte(raw), &data); err != nil {
//	        return Data{}, fmt.Errorf("invalid JSON: %w", err)
//	    }
//	    return data, nil
//	})
func Apply[A, B any](name Name, fn func(context.Context, A) (B, error)) *Step {
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
			result, err := fn(ctx, input)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}
