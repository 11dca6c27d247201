package chainz

import (
	"context"
)

// Effect creates a Step that performs side effects without modifying the
// data. Effect is for operations that need to happen alongside the main
// flow, such as logging, metrics collection, notifications, or audit
// trails.
//
// The function receives the data for inspection but must not modify it. Any
// returned error stops the run immediately. The original data always passes
// through unchanged, making Effect perfect for:
//   - Logging important events or data states
//   - Recording metrics (counts, latencies, values)
//   - Sending notifications or alerts
//   - Validating without transformation
//
// Unlike Apply, Effect cannot transform data. Unlike Transform, it can
// fail. This separation keeps side effects explicit and testable. Both the
// input and output labels are the input type: the step's output is its
// input.
//
// Example:
//
//	audit := chainz.Effect("audit_order", func(_ context.Context, order Order) error {
//	    return auditLog.Record(order.ID, order.Total)
//	})
func Effect[A any](name Name, fn func(context.Context, A) error) *Step {
	return &Step{
		name: name,
		src:  fn,
		in:   typeLabel[A](),
		out:  typeLabel[A](),
		fn: func(ctx context.Context, value any) (any, error) {
			input, err := assertInput[A](name, value)
			if err != nil {
				return nil, err
			}
			if err := fn(ctx, input); err != nil {
				return nil, err
			}
			return input, nil
		},
	}
}
