package chainz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/chainz/sink"
)

// Option adjusts a single run. Options never outlive the run they are
// passed to.
type Option func(*runConfig)

type runConfig struct {
	sink   sink.Sink
	report bool
}

// WithReport enables progress tracing: a styled line naming each step is
// written to the sink immediately before the step executes.
func WithReport() Option {
	return func(cfg *runConfig) { cfg.report = true }
}

// WithSink directs this run's trace output to s instead of the package
// default sink.
func WithSink(s sink.Sink) Option {
	return func(cfg *runConfig) { cfg.sink = s }
}

// Run executes the chain's steps in order, starting from data. Each step
// receives the output of the previous step; the final step's output is the
// run's result.
//
// Nil data substitutes the kind's DefaultData. A nil context is replaced
// with context.Background. The context is checked before each step; if it
// is canceled or expired the run stops immediately.
//
// When any step fails, execution stops and a *Error is returned carrying
// the path to the failing step, the run's input, and timing. Step panics
// are recovered into the same shape.
//
// Run is safe for concurrent use; the chain itself is immutable and every
// run carries its own state.
func (c *Chain) Run(ctx context.Context, data any, opts ...Option) (any, error) {
	cfg := runConfig{sink: sink.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return c.exec(ctx, data, cfg)
}

// Call runs the chain after normalizing args through the kind's Wrap hook.
// This is the callable-style entry point; piping a plain value into a chain
// is Call with that value:
//
//	result, err := pipeline.Call(ctx, 10.0)
//
// Calling with no arguments wraps the kind's default data.
func (c *Chain) Call(ctx context.Context, args ...any) (any, error) {
	return c.Run(ctx, c.kind.Wrap(args...))
}

// exec is the run loop behind Run.
func (c *Chain) exec(ctx context.Context, data any, cfg runConfig) (result any, err error) {
	k := c.kind
	defer recoverFromPanic(&result, &err, k.name, data)

	if ctx == nil {
		ctx = context.Background()
	}
	if data == nil {
		data = k.DefaultData()
	}

	steps := c.Len()
	clock := k.getClock()

	// Track metrics
	k.metrics.Counter(ChainRunsTotal).Inc()
	k.metrics.Gauge(ChainStepsTotal).Set(float64(steps))
	start := clock.Now()

	// Start main span
	ctx, span := k.tracer.StartSpan(ctx, ChainRunSpan)
	span.SetTag(ChainTagKind, string(k.name))
	span.SetTag(ChainTagStepCount, fmt.Sprintf("%d", steps))
	defer func() {
		elapsed := clock.Since(start)
		k.metrics.Gauge(ChainDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(ChainTagSuccess, "true")
			k.metrics.Counter(ChainSuccessesTotal).Inc()
		} else {
			span.SetTag(ChainTagSuccess, "false")
			k.metrics.Counter(ChainFailuresTotal).Inc()
			span.SetTag(ChainTagError, err.Error())
		}
		span.Finish()
	}()

	result = data
	completed := 0

	cur := c
	for i := 0; ; i++ {
		// Check context before starting the step
		select {
		case <-ctx.Done():
			return result, &Error{
				Err:       ctx.Err(),
				InputData: result,
				Path:      []Name{k.name},
				Timeout:   errors.Is(ctx.Err(), context.DeadlineExceeded),
				Canceled:  errors.Is(ctx.Err(), context.Canceled),
				Timestamp: clock.Now(),
			}
		default:
		}

		step := cur.step
		if cfg.report {
			cfg.sink.Write("‣ Entering "+step.displayName(), sink.Style{Color: sink.Cyan})
		}

		out, stepDuration, stepErr := k.runStep(ctx, step, i, result)

		if stepErr == nil {
			completed++
			k.metrics.Gauge(ChainStepsCompleted).Set(float64(completed))
			result = out

			_ = k.hooks.Emit(ctx, ChainEventStepComplete, ChainEvent{ //nolint:errcheck
				Kind:       k.name,
				StepName:   step.displayName(),
				StepNumber: i + 1,
				TotalSteps: steps,
				Success:    true,
				Duration:   stepDuration,
				Timestamp:  clock.Now(),
			})
		} else {
			_ = k.hooks.Emit(ctx, ChainEventStepComplete, ChainEvent{ //nolint:errcheck
				Kind:       k.name,
				StepName:   step.displayName(),
				StepNumber: i + 1,
				TotalSteps: steps,
				Success:    false,
				Error:      stepErr,
				Duration:   stepDuration,
				Timestamp:  clock.Now(),
			})

			var chainErr *Error
			if errors.As(stepErr, &chainErr) {
				// Prepend this kind's name to the path
				chainErr.Path = append([]Name{k.name}, chainErr.Path...)
				return result, chainErr
			}
			return result, &Error{
				Timestamp: clock.Now(),
				InputData: result,
				Err:       stepErr,
				Path:      []Name{k.name, step.displayName()},
				Duration:  stepDuration,
				Timeout:   errors.Is(stepErr, context.DeadlineExceeded),
				Canceled:  errors.Is(stepErr, context.Canceled),
			}
		}

		next, ok := cur.rest.(*Chain)
		if !ok {
			break
		}
		cur = next
	}

	// All steps completed - emit run_complete
	totalDuration := clock.Since(start)
	_ = k.hooks.Emit(ctx, ChainEventRunComplete, ChainEvent{ //nolint:errcheck
		Kind:           k.name,
		TotalSteps:     steps,
		CompletedSteps: completed,
		TotalDuration:  totalDuration,
		Success:        true,
		Timestamp:      clock.Now(),
	})

	return result, nil
}

// runStep executes one step inside its own span, converting panics into
// errors at the step boundary so per-step accounting stays accurate.
func (k *Kind) runStep(ctx context.Context, step *Step, index int, data any) (out any, elapsed time.Duration, err error) {
	clock := k.getClock()

	stepCtx, stepSpan := k.tracer.StartSpan(ctx, ChainStepSpan)
	stepSpan.SetTag(ChainTagStepNumber, fmt.Sprintf("%d", index+1))
	stepSpan.SetTag(ChainTagStepName, step.displayName())

	start := clock.Now()
	func() {
		defer recoverFromPanic(&out, &err, step.displayName(), data)
		out, err = step.invoke(stepCtx, data)
	}()
	elapsed = clock.Since(start)
	stepSpan.Finish()

	return out, elapsed, err
}
