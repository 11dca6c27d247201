package chainz

import (
	"context"
	"errors"

	"github.com/zoobzio/chainz/sink"
)

// Debugger steps through a chain one transformation at a time against
// caller-supplied data, tracing entry and pending-next information as it
// goes. It is the interactive counterpart to Run: the caller controls when
// each step fires and sees every intermediate value.
//
// A Debugger holds a mutable cursor over the chain and is a single-owner
// helper: it is not safe for concurrent stepping from multiple goroutines.
// The underlying chain is never modified.
//
// Example:
//
//	debugger := pipeline.Debug()
//	v, _ := debugger.Step(ctx, 2.0)  // 3.0   "‣ Entering add_one" "ⓘ Next: double"
//	v, _ = debugger.Step(ctx, v)     // 6.0   "‣ Entering double"  "ⓘ Pipeline Complete"
//	_, err := debugger.Step(ctx, v)  // ErrExhausted
type Debugger struct {
	cursor Continuation
	kind   *Kind
	sink   sink.Sink
	done   int
}

// Debug returns a Debugger positioned at the chain's first step. Tracing is
// always on for a debugger; WithSink redirects where the trace lines go.
func (c *Chain) Debug(opts ...Option) *Debugger {
	cfg := runConfig{sink: sink.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Debugger{cursor: c, kind: c.kind, sink: cfg.sink}
}

// Finished reports whether every step has been executed.
func (d *Debugger) Finished() bool {
	return d.cursor == End
}

// Remaining returns the number of steps not yet executed.
func (d *Debugger) Remaining() int {
	return d.cursor.Len()
}

// Step executes exactly the next step with the given data and returns its
// result. Stepping past the final step fails with ErrExhausted.
func (d *Debugger) Step(ctx context.Context, data any) (any, error) {
	return d.StepN(ctx, data, 1)
}

// StepN executes the next n steps, feeding each result into the following
// step, and returns the last result. Stepping past the final step fails
// with ErrExhausted; steps executed before the exhaustion point remain
// consumed.
func (d *Debugger) StepN(ctx context.Context, data any, n int) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := 0; i < n; i++ {
		cur, ok := d.cursor.(*Chain)
		if !ok {
			return data, ErrExhausted
		}
		step := cur.step
		d.cursor = cur.rest

		d.sink.Write("‣ Entering "+step.displayName(), sink.Style{Color: sink.Cyan})

		out, duration, err := d.kind.runStep(ctx, step, d.done, data)
		d.done++
		if err != nil {
			var chainErr *Error
			if errors.As(err, &chainErr) {
				chainErr.Path = append([]Name{d.kind.name}, chainErr.Path...)
				return data, chainErr
			}
			return data, &Error{
				Timestamp: d.kind.getClock().Now(),
				InputData: data,
				Err:       err,
				Path:      []Name{d.kind.name, step.displayName()},
				Duration:  duration,
			}
		}
		data = out

		if next, ok := d.cursor.(*Chain); ok {
			d.sink.Write("ⓘ Next: "+next.step.displayName(), sink.Style{Color: sink.Cyan})
		} else {
			d.sink.Write("ⓘ Pipeline Complete", sink.Style{Color: sink.Cyan})
		}
	}
	return data, nil
}
