package chainz

import (
	"context"
	"fmt"
	"testing"
)

func TestExplain(t *testing.T) {
	t.Run("Single Step", func(t *testing.T) {
		chain := New(addOneStep())

		if chain.Explain() != "add_one" {
			t.Errorf("expected add_one, got %s", chain.Explain())
		}
	})

	t.Run("Steps In Execution Order", func(t *testing.T) {
		chain := New(addOneStep()).ThenStep(doubleStep()).ThenStep(squareStep())

		if chain.Explain() != "add_one >> double >> square" {
			t.Errorf("unexpected explain output: %s", chain.Explain())
		}
	})

	t.Run("Unnamed Step Shows Symbol", func(t *testing.T) {
		chain := New(addOneStep()).ThenStep(Transform("", namedProbe))

		if chain.Explain() != "add_one >> chainz.namedProbe" {
			t.Errorf("unexpected explain output: %s", chain.Explain())
		}
	})
}

func TestChainString(t *testing.T) {
	t.Run("Single Node Shows Step", func(t *testing.T) {
		chain := New(doubleStep())

		if chain.String() != "Chain(double)" {
			t.Errorf("expected Chain(double), got %s", chain.String())
		}
	})

	t.Run("Multi Node Shows Type Labels", func(t *testing.T) {
		render := Transform(toString, func(_ context.Context, x float64) string {
			return fmt.Sprint(x)
		})
		chain := New(addOneStep()).ThenStep(doubleStep()).ThenStep(render)

		if chain.String() != "Chain[float64 -> string]" {
			t.Errorf("expected Chain[float64 -> string], got %s", chain.String())
		}
	})

	t.Run("Unlabeled Steps Degrade To Any", func(t *testing.T) {
		first := NewStep("first", func(_ context.Context, data any) (any, error) { return data, nil })
		second := NewStep("second", func(_ context.Context, data any) (any, error) { return data, nil })
		chain := New(first).ThenStep(second)

		if chain.String() != "Chain[any -> any]" {
			t.Errorf("expected Chain[any -> any], got %s", chain.String())
		}
	})
}
