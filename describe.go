package chainz

import "fmt"

// SetDescription assigns the chain's human-readable description. Chains are
// frozen at construction; the description is the single field that may
// still be written afterward, and exactly once. Every later call fails with
// an error wrapping ErrFrozen and naming the chain.
//
// The description is display metadata for composed pipelines whose purpose
// is not obvious from their step names, such as assembled runner pipelines.
func (c *Chain) SetDescription(desc string) error {
	if !c.desc.CompareAndSwap(nil, &desc) {
		return fmt.Errorf("%s %w", c, ErrFrozen)
	}
	return nil
}

// Description returns the description assigned via SetDescription, or ""
// when none has been set.
func (c *Chain) Description() string {
	if p := c.desc.Load(); p != nil {
		return *p
	}
	return ""
}
