package chainz

import (
	"fmt"
	"strings"
)

// Explain returns a human-readable trace of the chain: every step's display
// name joined by the composition marker, in execution order.
//
//	addOne.Then(double).Then(square).Explain()
//	// "add_one >> double >> square"
//
// Steps without explicit names fall back to their function's qualified
// runtime symbol, then to a generic form.
func (c *Chain) Explain() string {
	return strings.Join(c.Names(), " >> ")
}

// String renders the chain for display. A one-node chain shows its step; a
// multi-node chain shows the inferred input and output type labels, taken
// from the head step's input label and the tail step's output label:
//
//	Chain(add_one)
//	Chain[float64 -> string]
//
// Labels are best-effort: steps constructed without declared labels degrade
// to the "any" placeholder rather than failing.
func (c *Chain) String() string {
	if c.rest == End {
		return fmt.Sprintf("Chain(%s)", c.step.displayName())
	}
	return fmt.Sprintf("Chain[%s -> %s]", c.step.in, c.Tail().step.out)
}
