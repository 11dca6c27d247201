package chainz

import (
	"iter"
	"sync/atomic"
)

// Chain is an immutable node in a linear sequence of transformations. Each
// node holds one step and a continuation: either the next node or End. A
// chain is strictly linear and acyclic; there is no branching and no merge.
//
// Chains are frozen at construction. The step, continuation, and kind never
// change afterward; there are no setters and composition always builds new
// nodes. The one sanctioned post-construction write is SetDescription,
// which lands exactly once. Immutability makes chains safe to share across
// goroutines and to reuse as building blocks: binding a chain into a longer
// one leaves the original fully usable.
//
// Identity is reference identity. Two structurally identical chains are
// distinct values and compare unequal; use Explain or Steps to compare
// structure.
//
// Build chains with New (or a Kind's New) and compose with Then:
//
//	addOne := chainz.New(chainz.Transform("add_one", addOneFn))
//	double := chainz.New(chainz.Transform("double", doubleFn))
//	pipeline := addOne.Then(double)
//
//	pipeline.Explain() // "add_one >> double"
//	pipeline.Len()     // 2
type Chain struct {
	step *Step
	rest Continuation
	kind *Kind
	desc atomic.Pointer[string]
}

// New wraps a single step into a one-node chain of the default kind.
func New(step *Step) *Chain {
	return DefaultKind.New(step)
}

// Compose folds chains left to right with Then, returning the combined
// chain. It is the function form of the composition operator:
// Compose(a, b, c) executes a, then b, then c.
func Compose(first *Chain, rest ...*Chain) *Chain {
	combined := first
	for _, next := range rest {
		combined = combined.Then(next)
	}
	return combined
}

// newNode builds a chain node, enforcing the construction invariants.
func newNode(step *Step, rest Continuation, kind *Kind) *Chain {
	if step == nil {
		panic("chainz: a chain step must not be nil")
	}
	if !validContinuation(rest) {
		panic("chainz: the rest of a chain must be another chain or End")
	}
	if kind == nil {
		kind = DefaultKind
	}
	return &Chain{step: step, rest: rest, kind: kind}
}

// validContinuation admits exactly the two union variants: a non-nil chain
// node or the End terminator. Nil interfaces, typed-nil pointers, and
// foreign types that acquired the interface through embedding are all
// rejected.
func validContinuation(rest Continuation) bool {
	switch c := rest.(type) {
	case *Chain:
		return c != nil
	case terminator:
		return true
	default:
		return false
	}
}

// Then composes the receiver with next, returning a new chain that runs the
// receiver's steps and then next. Neither operand is modified.
//
// Binding rebuilds recursively: if the receiver's continuation is End, the
// result is a new node with the receiver's step and next as its
// continuation; otherwise the result is a new node whose continuation is
// the receiver's continuation bound to next. The argument therefore always
// becomes the new terminal continuation, however deep the receiver's chain
// is. Binding End returns the receiver unchanged.
//
// The rebuilt nodes take their kind from the receiver, so composing keeps
// the left operand's behavior hooks.
//
// A nil continuation is a programming error and panics. To append a bare
// step, use ThenStep.
func (c *Chain) Then(next Continuation) *Chain {
	if !validContinuation(next) {
		panic("chainz: the rest of a chain must be another chain or End")
	}
	if next == End {
		return c
	}
	if c.rest == End {
		return newNode(c.step, next, c.kind)
	}
	return newNode(c.step, c.rest.(*Chain).Then(next), c.kind)
}

// ThenStep wraps a bare step through the receiver's kind factory and binds
// it, covering the "compose with an unwrapped transformation" path.
func (c *Chain) ThenStep(step *Step) *Chain {
	return c.Then(c.kind.New(step))
}

// Step returns the transformation this node contributes.
func (c *Chain) Step() *Step {
	return c.step
}

// Rest returns the continuation after this node: the next node, or End for
// the tail.
func (c *Chain) Rest() Continuation {
	return c.rest
}

// Kind returns the capability bundle this chain consults at its boundaries.
func (c *Chain) Kind() *Kind {
	return c.kind
}

// Tail returns the final node of the chain, the one whose continuation is
// End. Useful for inspecting where the chain ends, such as its output
// label.
func (c *Chain) Tail() *Chain {
	cur := c
	for {
		next, ok := cur.rest.(*Chain)
		if !ok {
			return cur
		}
		cur = next
	}
}

// Len returns the number of steps in the chain.
func (c *Chain) Len() int {
	n := 0
	for cur := c; ; {
		n++
		next, ok := cur.rest.(*Chain)
		if !ok {
			return n
		}
		cur = next
	}
}

// Steps returns an iterator over the chain's steps in execution order. The
// traversal is re-entrant: every call, and every range over the returned
// sequence, walks the chain independently.
//
//	for step := range pipeline.Steps() {
//	    fmt.Println(step)
//	}
func (c *Chain) Steps() iter.Seq[*Step] {
	return func(yield func(*Step) bool) {
		for cur := c; ; {
			if !yield(cur.step) {
				return
			}
			next, ok := cur.rest.(*Chain)
			if !ok {
				return
			}
			cur = next
		}
	}
}

// Names returns the display names of the chain's steps in execution order.
func (c *Chain) Names() []Name {
	names := make([]Name, 0, c.Len())
	for step := range c.Steps() {
		names = append(names, step.displayName())
	}
	return names
}

// Name returns the display name of the chain's head step.
func (c *Chain) Name() Name {
	return c.step.displayName()
}

func (*Chain) isContinuation() {}
