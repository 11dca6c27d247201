// Package chainz provides a library for building composable, introspectable
// transformation pipelines in Go.
//
// # Overview
//
// chainz lets you assemble a single callable transformation out of small,
// independently-defined steps, each consuming the output of the previous
// step. Chains are immutable linked structures: composing two chains never
// modifies either operand, so chains are safe to share, reuse, and compose
// freely across goroutines. A parallel validator mechanism checks a chain
// and its input before real execution, and a JSON-driven runner assembles
// chains from named step references.
//
// # Core Concepts
//
// The library is built around three pieces:
//
//   - Step: a named unit of work wrapping a function, created with the
//     adapter constructors (Transform, Apply, Effect, NewStep)
//   - Chain: an immutable node holding one step and a continuation, which
//     is either another node or the End marker
//   - Kind: a capability bundle supplying the hooks a chain consults at its
//     boundaries (default data, argument wrapping, JSON conversion, base
//     validation) plus the observability state for every run
//
// Design philosophy:
//   - Steps and chain nodes are immutable values
//   - Kinds are mutable containers (configuration and instrumentation)
//
// Execution is synchronous and fail-fast: a run walks the chain in order and
// stops at the first error. Context flows through every step for timeout and
// cancellation control.
//
// # Building Chains
//
// Wrap functions with an adapter, then compose with Then:
//
//	addOne := chainz.New(chainz.Transform("add_one", func(_ context.Context, x float64) float64 {
//	    return x + 1
//	}))
//	double := chainz.New(chainz.Transform("double", func(_ context.Context, x float64) float64 {
//	    return x * 2
//	}))
//
//	pipeline := addOne.Then(double)
//	result, err := pipeline.Run(context.Background(), 10.0)
//	// result: 22.0, err: nil
//
// Composition always rebuilds: the argument becomes the new terminal
// continuation no matter how deep the receiver's chain is, and the receiver
// is left untouched. Binding is associative; a.Then(b).Then(c) and
// a.Then(b.Then(c)) execute identically.
//
// # Introspection
//
// Chains explain themselves:
//
//	pipeline.Explain()  // "add_one >> double"
//	pipeline.String()   // "Chain[float64 -> float64]"
//	for step := range pipeline.Steps() {
//	    fmt.Println(step.Name())
//	}
//
// The Debug method returns a single-owner stepper that executes one step at
// a time against caller-supplied data, tracing entry and pending-next
// information as it goes.
//
// # Validation
//
// Validators are chains over a carrier value threading (chain, data,
// verdict). Checks short-circuit: once any check fails, later checks pass
// the carrier through without running.
//
//	checkX := chainz.NewCheck("check_x", func(_ context.Context, _ *chainz.Chain, data any) chainz.Result {
//	    if _, ok := data.(map[string]any)["x"]; !ok {
//	        return chainz.Fail("No x in data")
//	    }
//	    return chainz.Success()
//	})
//	result, err := checkX.ValidateAndRun(ctx, pipeline, input)
//
// # Error Handling
//
// Failed runs return a *Error carrying the full path to the failing step,
// the input that caused the failure, timing, and timeout/cancellation flags:
//
//	result, err := pipeline.Run(ctx, data)
//	if err != nil {
//	    var chainErr *chainz.Error
//	    if errors.As(err, &chainErr) {
//	        log.Printf("failed at: %s", strings.Join(chainErr.Path, " -> "))
//	        log.Printf("input: %+v", chainErr.InputData)
//	    }
//	}
//
// # Observability
//
// Every Kind owns a metrics registry, a tracer, and hook emission. Runs and
// steps are counted, timed, and spanned; ChainEvent hooks fire as steps and
// runs complete. See Kind for the available keys.
package chainz

import "context"

// Name is a type alias for step, chain, and kind names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    ParseOrderName  Name = "parse_order"
//	    PriceOrderName  Name = "price_order"
//	    RecordOrderName Name = "record_order"
//	)
//
//	parse := chainz.Apply(ParseOrderName, parseFunc)
//	price := chainz.Transform(PriceOrderName, priceFunc)
type Name = string

// Continuation is what follows a step inside a chain: either another *Chain
// node or the End marker. It is a closed set; no other implementations
// exist. The sealed design keeps the chain invariant simple: a node's rest
// is always a node or End, never anything else.
//
// Both variants can be invoked directly. A *Chain runs its steps; End is the
// identity and hands its input straight back. That identity behavior is what
// closes a chain's execution: reaching an End continuation means "stop,
// return the accumulated value".
type Continuation interface {
	// Name returns the display name of the head step, or "" for End.
	Name() Name

	// Run executes the continuation with the given data. End returns the
	// data unchanged; a chain node runs every remaining step in order.
	Run(ctx context.Context, data any, opts ...Option) (any, error)

	// Len reports how many steps remain, 0 for End.
	Len() int

	isContinuation()
}

// terminator is the variant behind End. All terminator values compare equal,
// so End equality is by variant tag rather than object identity.
type terminator struct{}

// End marks the termination of a chain. A node whose continuation equals End
// is the chain's tail. End itself behaves as the identity transformation
// when invoked: Run returns its input unchanged.
//
//	chain.Tail().Rest() == chainz.End  // true for every chain
var End Continuation = terminator{}

func (terminator) isContinuation() {}

// Name returns the empty name; End has no step.
func (terminator) Name() Name { return "" }

// Run returns data unchanged. The identity behavior lets a chain whose rest
// resolved to End still be called like any other continuation.
func (terminator) Run(_ context.Context, data any, _ ...Option) (any, error) {
	return data, nil
}

// Len reports zero remaining steps.
func (terminator) Len() int { return 0 }
