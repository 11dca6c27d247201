// Package runner executes chains described by JSON configs.
//
// A config names registered steps; the runner resolves those names
// through a Registry, composes them into a chain, validates the result,
// and runs it with progress reporting. The interesting part is that the
// runner is itself a chain: parsing, validation, and execution are
// ordinary steps composed with the same primitives they orchestrate, so
// everything chains offer (introspection, tracing, debugging) works on
// the runner too.
package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/zoobzio/clockz"

	"github.com/zoobzio/chainz"
	"github.com/zoobzio/chainz/sink"
)

// ErrUndefined is returned when a runner step needs a value an earlier
// step never populated. Seeing it means the runner pipeline was composed
// or invoked incorrectly, not that the config is wrong.
var ErrUndefined = errors.New("required value not defined")

// State is the carrier threaded through the runner's own pipeline. Each
// step fills in another field from the config; State values are passed
// and returned by value, so steps never see each other's intermediate
// copies.
type State struct {
	Config    Config
	Target    *chainz.Chain
	Data      any
	Validator chainz.Validator
}

// runnerKind stamps the runner's own steps. Its wrap hook lets a Config
// be piped straight into the runner pipeline.
var runnerKind = chainz.NewKind("runner",
	chainz.WithWrap(func(args []any) any {
		if len(args) == 0 {
			return nil
		}
		switch v := args[0].(type) {
		case Config:
			return State{Config: v}
		case *Config:
			return State{Config: *v}
		default:
			return args[0]
		}
	}),
)

const runDescription = `Runs the pipeline defined by a JSON config.

The config must carry a "PIPELINE" key listing registered step names in
execution order. An optional "DATA" key supplies the pipeline's input,
parsed through the target kind's FromJSON hook; when absent the kind's
default data is used. An optional "VALIDATORS" key lists registered
checks appended after the kind's base validator; if any check fails the
pipeline does not run.`

// Runner turns configs into validated, running chains.
type Runner struct {
	registry *Registry
	clock    clockz.Clock
	sink     sink.Sink
	run      *chainz.Chain
	dry      *chainz.Chain
}

// Option configures a Runner at construction.
type Option func(*Runner)

// WithClock sets the clock used to time runs.
func WithClock(clock clockz.Clock) Option {
	return func(r *Runner) { r.clock = clock }
}

// WithSink directs the runner's progress output, including the chain's
// own step reporting, to s.
func WithSink(s sink.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// New builds a Runner resolving names through registry. The run pipeline
// and its dry-run prefix share structure; both carry a description for
// introspection.
func New(registry *Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		clock:    clockz.RealClock,
		sink:     sink.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	parse := runnerKind.New(chainz.Apply("parse_pipeline", r.parsePipeline)).
		ThenStep(chainz.Apply("parse_validators", r.parseValidators)).
		ThenStep(chainz.Apply("parse_data", r.parseData))
	validate := runnerKind.New(chainz.Apply("validate", r.validate))

	r.run = parse.Then(validate).ThenStep(chainz.Apply("run_pipeline", r.runPipeline))
	r.dry = parse.Then(validate)

	_ = r.run.SetDescription(runDescription)                                                            //nolint:errcheck
	_ = r.dry.SetDescription("Validates that the configured pipeline is runnable without executing it.") //nolint:errcheck

	return r
}

// Run resolves, validates, and executes the pipeline cfg describes,
// returning the pipeline's final output. Validation failures surface as a
// *chainz.ValidationError in the error chain.
func (r *Runner) Run(ctx context.Context, cfg Config) (any, error) {
	return r.run.Call(ctx, cfg)
}

// DryRun resolves and validates the pipeline cfg describes without
// executing it.
func (r *Runner) DryRun(ctx context.Context, cfg Config) error {
	_, err := r.dry.Call(ctx, cfg)
	return err
}

// Build resolves cfg's PIPELINE entries into the chain they describe,
// without validating or running it.
func (r *Runner) Build(ctx context.Context, cfg Config) (*chainz.Chain, error) {
	s, err := r.parsePipeline(ctx, State{Config: cfg})
	if err != nil {
		return nil, err
	}
	return s.Target, nil
}

// Pipeline returns the runner's own composed chain, mainly for
// introspection: its Explain and Description read as documentation of
// what Run does.
func (r *Runner) Pipeline() *chainz.Chain {
	return r.run
}

func (r *Runner) parsePipeline(_ context.Context, s State) (State, error) {
	if len(s.Config.Pipeline) == 0 {
		return State{}, errors.New("config PIPELINE is empty")
	}
	head, err := r.registry.Resolve(s.Config.Pipeline[0])
	if err != nil {
		return State{}, err
	}
	rest := make([]*chainz.Chain, 0, len(s.Config.Pipeline)-1)
	for _, name := range s.Config.Pipeline[1:] {
		c, err := r.registry.Resolve(name)
		if err != nil {
			return State{}, err
		}
		rest = append(rest, c)
	}
	s.Target = chainz.Compose(head, rest...)
	return s, nil
}

func (r *Runner) parseValidators(_ context.Context, s State) (State, error) {
	if s.Target == nil {
		return State{}, errors.Wrap(ErrUndefined, "pipeline")
	}
	v := s.Target.Kind().BaseValidator()
	for _, name := range s.Config.Validators {
		c, err := r.registry.Resolve(name)
		if err != nil {
			return State{}, err
		}
		v = v.Then(chainz.Validator{Chain: c})
	}
	s.Validator = v
	return s, nil
}

func (r *Runner) parseData(_ context.Context, s State) (State, error) {
	if s.Target == nil {
		return State{}, errors.Wrap(ErrUndefined, "pipeline")
	}
	kind := s.Target.Kind()
	if len(s.Config.Data) == 0 {
		s.Data = kind.DefaultData()
		return s, nil
	}
	var decoded any
	if err := json.Unmarshal(s.Config.Data, &decoded); err != nil {
		return State{}, errors.Wrap(err, "decode DATA")
	}
	if decoded == nil {
		s.Data = kind.DefaultData()
		return s, nil
	}
	parsed, err := kind.FromJSON(decoded)
	if err != nil {
		return State{}, errors.Wrap(err, "parse DATA")
	}
	s.Data = parsed
	return s, nil
}

func (r *Runner) validate(ctx context.Context, s State) (State, error) {
	if s.Target == nil {
		return State{}, errors.Wrap(ErrUndefined, "pipeline")
	}
	if s.Validator.Chain == nil {
		return State{}, errors.Wrap(ErrUndefined, "validator")
	}
	if s.Data == nil {
		return State{}, errors.Wrap(ErrUndefined, "data")
	}
	out, err := s.Validator.Run(ctx, chainz.NewCarrier(s.Target, s.Data))
	if err != nil {
		return State{}, err
	}
	validated, ok := out.(chainz.Carrier)
	if !ok {
		return State{}, errors.Errorf("validator produced %T, want a carrier", out)
	}
	if !validated.Result().Valid() {
		return State{}, &chainz.ValidationError{Reason: validated.Result().Reason()}
	}
	s.Target = validated.Target()
	s.Data = validated.Data()
	return s, nil
}

func (r *Runner) runPipeline(ctx context.Context, s State) (any, error) {
	if s.Target == nil {
		return nil, errors.Wrap(ErrUndefined, "pipeline")
	}
	if s.Data == nil {
		return nil, errors.Wrap(ErrUndefined, "data")
	}
	start := r.clock.Now()
	result, err := s.Target.Run(ctx, s.Data, chainz.WithReport(), chainz.WithSink(r.sink))
	if err != nil {
		return nil, err
	}
	r.sink.Write("", sink.Style{})
	r.sink.Write(fmt.Sprintf("✓ Pipeline complete in %.2f seconds.", r.clock.Since(start).Seconds()),
		sink.Style{Color: sink.Green})
	return result, nil
}
