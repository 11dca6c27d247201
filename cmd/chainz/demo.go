package main

import (
	"context"
	"fmt"

	"github.com/zoobzio/chainz"
	"github.com/zoobzio/chainz/runner"
)

// registry holds the steps configs can reference by name. These mirror
// the library's package documentation examples so configs written against
// the docs run unchanged.
var registry = newDemoRegistry()

func newDemoRegistry() *runner.Registry {
	reg := runner.NewRegistry()
	register := func(name string, c *chainz.Chain) {
		if err := reg.Register(name, c); err != nil {
			panic(err)
		}
	}

	register("double", chainz.New(chainz.Transform("double", func(_ context.Context, x float64) float64 {
		return 2 * x
	})))
	register("negate", chainz.New(chainz.Transform("negate", func(_ context.Context, x float64) float64 {
		return -x
	})))
	register("add_one", chainz.New(chainz.Transform("add_one", func(_ context.Context, x float64) float64 {
		return x + 1
	})))
	register("square", chainz.New(chainz.Transform("square", func(_ context.Context, x float64) float64 {
		return x * x
	})))
	register("to_string", chainz.New(chainz.Transform("to_string", func(_ context.Context, x any) string {
		return fmt.Sprint(x)
	})))
	register("add_x_and_y", chainz.New(chainz.Transform("add_x_and_y", func(_ context.Context, m map[string]any) float64 {
		x, _ := m["x"].(float64)
		y, _ := m["y"].(float64)
		return x + y
	})))

	register("check_x", chainz.NewCheck("check_x", requireKey("x", "No x in data")).Chain)
	register("check_y", chainz.NewCheck("check_y", requireKey("y", "No y in data")).Chain)

	return reg
}

// requireKey builds a check failing with reason unless the data is an
// object containing key.
func requireKey(key, reason string) chainz.Check {
	return func(_ context.Context, _ *chainz.Chain, data any) chainz.Result {
		m, ok := data.(map[string]any)
		if !ok {
			return chainz.Fail(reason)
		}
		if _, ok := m[key]; !ok {
			return chainz.Fail(reason)
		}
		return chainz.Success()
	}
}
