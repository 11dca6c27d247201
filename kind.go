package chainz

import (
	"context"
	"log/slog"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for chain execution.
const (
	// Metrics.
	ChainRunsTotal      = metricz.Key("chain.runs.total")
	ChainSuccessesTotal = metricz.Key("chain.successes.total")
	ChainFailuresTotal  = metricz.Key("chain.failures.total")
	ChainStepsCompleted = metricz.Key("chain.steps.completed")
	ChainStepsTotal     = metricz.Key("chain.steps.total")
	ChainDurationMs     = metricz.Key("chain.duration.ms")

	// Spans.
	ChainRunSpan  = tracez.Key("chain.run")
	ChainStepSpan = tracez.Key("chain.step")

	// Tags.
	ChainTagKind       = tracez.Tag("chain.kind")
	ChainTagStepCount  = tracez.Tag("chain.step_count")
	ChainTagStepNumber = tracez.Tag("chain.step_number")
	ChainTagStepName   = tracez.Tag("chain.step_name")
	ChainTagSuccess    = tracez.Tag("chain.success")
	ChainTagError      = tracez.Tag("chain.error")

	// Hook event keys.
	ChainEventStepComplete = hookz.Key("chain.step_complete")
	ChainEventRunComplete  = hookz.Key("chain.run_complete")
)

// ChainEvent represents a chain execution event. Emitted via hookz as
// individual steps complete and when a whole run finishes, providing
// visibility into pipeline progress.
type ChainEvent struct {
	Kind           Name          // Kind the running chain belongs to
	StepName       Name          // Display name of the step
	StepNumber     int           // Current step number (1-based)
	TotalSteps     int           // Total number of steps in the run
	Success        bool          // Whether the step succeeded
	Error          error         // Error if the step failed
	Duration       time.Duration // How long this step took
	CompletedSteps int           // Steps completed (for run_complete)
	TotalDuration  time.Duration // Total run time (for run_complete)
	Timestamp      time.Time     // When the event occurred
}

// notImplemented is the variant behind NotImplemented.
type notImplemented struct{}

func (notImplemented) String() string { return "NotImplemented" }

// NotImplemented is the marker returned by the base DefaultData hook. It is
// deliberately a distinct value rather than an error: a chain can still be
// introspected and run without real default data, but any step that
// receives NotImplemented as working data indicates a caller bug.
var NotImplemented any = notImplemented{}

// Kind bundles the behavior hooks a chain consults at its boundaries,
// together with the observability state for every run of its chains. Chain
// nodes are immutable values; the kind is the long-lived mutable container
// behind them.
//
// The hooks are closed extension points with base behaviors:
//   - DefaultData: value used when a run starts with nil data. Base: warn
//     and return the NotImplemented marker.
//   - Wrap: normalize call-time arguments into the single value the chain
//     expects. Base: first argument, or DefaultData when none were given.
//   - FromJSON: convert a decoded JSON value into the chain's input type.
//     Base: delegate to Wrap.
//   - BaseValidator: validator run before any chain of this kind when
//     invoked through the config runner. Base: a no-op echo validator.
//
// Kinds with specialized hooks are built with NewKind and functional
// options:
//
//	scores := chainz.NewKind("scores",
//	    chainz.WithDefaultData(func() any { return 0.0 }),
//	)
//	chain := scores.New(chainz.Transform("double", doubleFn))
//
// # Observability
//
// Every kind owns a metrics registry, a tracer, and hook emission shared by
// all chains of that kind:
//
// Metrics:
//   - chain.runs.total: Counter of runs started
//   - chain.successes.total: Counter of successful runs
//   - chain.failures.total: Counter of failed runs
//   - chain.steps.completed: Gauge of steps completed by the latest run
//   - chain.steps.total: Gauge of steps in the latest run
//   - chain.duration.ms: Gauge of the latest run duration
//
// Traces:
//   - chain.run: Parent span for an entire run
//   - chain.step: Child span for each step
//
// Events (via hooks):
//   - chain.step_complete: Fired as each step completes
//   - chain.run_complete: Fired when a run finishes successfully
//
// Example:
//
//	chainz.DefaultKind.OnStepComplete(func(_ context.Context, e chainz.ChainEvent) error {
//	    log.Printf("step %d/%d: %s (%v)", e.StepNumber, e.TotalSteps, e.StepName, e.Duration)
//	    return nil
//	})
type Kind struct {
	name          Name
	defaultData   func() any
	wrap          func(args []any) any
	fromJSON      func(v any) (any, error)
	baseValidator func() Validator
	clock         clockz.Clock
	metrics       *metricz.Registry
	tracer        *tracez.Tracer
	hooks         *hookz.Hooks[ChainEvent]
}

// DefaultKind is the kind behind chains built with the package-level New.
// It carries the base hook behaviors.
var DefaultKind = NewKind("chain")

// KindOption configures a Kind at construction.
type KindOption func(*Kind)

// WithDefaultData sets the hook supplying a value for runs that start with
// nil data.
func WithDefaultData(fn func() any) KindOption {
	return func(k *Kind) { k.defaultData = fn }
}

// WithWrap sets the hook normalizing call-time arguments into the single
// value the chain expects.
func WithWrap(fn func(args []any) any) KindOption {
	return func(k *Kind) { k.wrap = fn }
}

// WithFromJSON sets the hook converting a decoded JSON value into the
// chain's input type.
func WithFromJSON(fn func(v any) (any, error)) KindOption {
	return func(k *Kind) { k.fromJSON = fn }
}

// WithBaseValidator sets the hook supplying the validator run before chains
// of this kind when invoked through the config runner.
func WithBaseValidator(fn func() Validator) KindOption {
	return func(k *Kind) { k.baseValidator = fn }
}

// WithClock sets a custom clock for testing.
func WithClock(clock clockz.Clock) KindOption {
	return func(k *Kind) { k.clock = clock }
}

// NewKind creates a Kind with the given name and options. Hooks left unset
// keep their base behaviors. The kind is ready for concurrent use.
func NewKind(name Name, opts ...KindOption) *Kind {
	metrics := metricz.New()
	metrics.Counter(ChainRunsTotal)
	metrics.Counter(ChainSuccessesTotal)
	metrics.Counter(ChainFailuresTotal)
	metrics.Gauge(ChainStepsCompleted)
	metrics.Gauge(ChainStepsTotal)
	metrics.Gauge(ChainDurationMs)

	k := &Kind{
		name:    name,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[ChainEvent](),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// New wraps a step into a one-node chain of this kind. This is the step
// factory consulted by ThenStep, so specialized kinds stamp every step
// composed through them.
//
// A nil step is a programming error and panics.
func (k *Kind) New(step *Step) *Chain {
	return newNode(step, End, k)
}

// Name returns the kind's name. It appears first in Error.Path and as the
// chain.kind span tag.
func (k *Kind) Name() Name {
	return k.name
}

// DefaultData returns the value used when a run starts with nil data. The
// base behavior warns through slog and returns the NotImplemented marker;
// treating that marker as real data downstream is a caller bug.
func (k *Kind) DefaultData() any {
	if k.defaultData != nil {
		return k.defaultData()
	}
	slog.Warn("kind was invoked without data and has no default data hook; returning NotImplemented",
		"kind", k.name)
	return NotImplemented
}

// Wrap normalizes call-time arguments into the single value the chain
// expects. The base behavior returns the first argument, or DefaultData
// when no arguments were given.
func (k *Kind) Wrap(args ...any) any {
	if k.wrap != nil {
		return k.wrap(args)
	}
	if len(args) == 0 {
		return k.DefaultData()
	}
	return args[0]
}

// FromJSON converts a decoded JSON value into the chain's input type. The
// base behavior delegates to Wrap.
func (k *Kind) FromJSON(v any) (any, error) {
	if k.fromJSON != nil {
		return k.fromJSON(v)
	}
	return k.Wrap(v), nil
}

// BaseValidator returns the validator run before chains of this kind when
// invoked through the config runner. The base behavior is a no-op echo
// validator that always succeeds.
func (k *Kind) BaseValidator() Validator {
	if k.baseValidator != nil {
		return k.baseValidator()
	}
	return EchoValidator()
}

// Metrics returns the metrics registry for this kind.
func (k *Kind) Metrics() *metricz.Registry {
	return k.metrics
}

// Tracer returns the tracer for this kind.
func (k *Kind) Tracer() *tracez.Tracer {
	return k.tracer
}

// OnStepComplete registers a handler called asynchronously each time a step
// finishes, whether it succeeds or fails.
func (k *Kind) OnStepComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := k.hooks.Hook(ChainEventStepComplete, handler)
	return err
}

// OnRunComplete registers a handler called asynchronously after a run
// finishes without errors. The event carries aggregate statistics.
func (k *Kind) OnRunComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := k.hooks.Hook(ChainEventRunComplete, handler)
	return err
}

// Close gracefully shuts down observability components.
func (k *Kind) Close() error {
	if k.tracer != nil {
		k.tracer.Close()
	}
	k.hooks.Close()
	return nil
}

// getClock returns the clock to use.
func (k *Kind) getClock() clockz.Clock {
	if k.clock == nil {
		return clockz.RealClock
	}
	return k.clock
}
