package chainz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func namedProbe(_ context.Context, x float64) float64 { return x }

func TestNewStep(t *testing.T) {
	t.Run("Creates Erased Step", func(t *testing.T) {
		step := NewStep(echoStep, func(_ context.Context, data any) (any, error) {
			return data, nil
		})

		if step.Name() != echoStep {
			t.Errorf("expected name %s, got %s", echoStep, step.Name())
		}
		if step.InputLabel() != "any" {
			t.Errorf("expected input label any, got %s", step.InputLabel())
		}
		if step.OutputLabel() != "any" {
			t.Errorf("expected output label any, got %s", step.OutputLabel())
		}

		result, err := New(step).Run(context.Background(), "anything")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "anything" {
			t.Errorf("expected anything, got %v", result)
		}
	})

	t.Run("Nil Function Panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic for nil function")
			}
		}()
		NewStep("broken", nil)
	})

	t.Run("With Labels", func(t *testing.T) {
		step := NewStep("render", func(_ context.Context, data any) (any, error) {
			return data, nil
		}, WithLabels("float64", "string"))

		if step.InputLabel() != "float64" {
			t.Errorf("expected input label float64, got %s", step.InputLabel())
		}
		if step.OutputLabel() != "string" {
			t.Errorf("expected output label string, got %s", step.OutputLabel())
		}
	})

	t.Run("Empty Labels Keep Existing", func(t *testing.T) {
		step := NewStep("render", func(_ context.Context, data any) (any, error) {
			return data, nil
		}, WithLabels("", "string"))

		if step.InputLabel() != "any" {
			t.Errorf("expected input label any, got %s", step.InputLabel())
		}
		if step.OutputLabel() != "string" {
			t.Errorf("expected output label string, got %s", step.OutputLabel())
		}
	})
}

func TestStepDisplayName(t *testing.T) {
	t.Run("Explicit Name Wins", func(t *testing.T) {
		step := Transform(double, namedProbe)

		if step.String() != double {
			t.Errorf("expected %s, got %s", double, step.String())
		}
	})

	t.Run("Falls Back To Function Symbol", func(t *testing.T) {
		step := Transform("", namedProbe)

		if step.String() != "chainz.namedProbe" {
			t.Errorf("expected chainz.namedProbe, got %s", step.String())
		}
	})

	t.Run("Falls Back To Type Labels", func(t *testing.T) {
		step := &Step{in: "float64", out: "string"}

		if step.String() != "step[float64 -> string]" {
			t.Errorf("expected step[float64 -> string], got %s", step.String())
		}
	})
}

func TestTypeLabels(t *testing.T) {
	t.Run("Concrete Types", func(t *testing.T) {
		step := Transform("convert", func(_ context.Context, _ float64) string { return "" })

		if step.InputLabel() != "float64" {
			t.Errorf("expected float64, got %s", step.InputLabel())
		}
		if step.OutputLabel() != "string" {
			t.Errorf("expected string, got %s", step.OutputLabel())
		}
	})

	t.Run("Empty Interface Reads As Any", func(t *testing.T) {
		step := Transform("inspect", func(_ context.Context, _ any) any { return nil })

		if step.InputLabel() != "any" {
			t.Errorf("expected any, got %s", step.InputLabel())
		}
	})

	t.Run("Composite Types Spell Any", func(t *testing.T) {
		step := Transform("merge", func(_ context.Context, m map[string]any) map[string]any { return m })

		if step.InputLabel() != "map[string]any" {
			t.Errorf("expected map[string]any, got %s", step.InputLabel())
		}
	})
}

func TestAssertInput(t *testing.T) {
	t.Run("Matching Type Passes", func(t *testing.T) {
		got, err := assertInput[float64]("n", 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 2.0 {
			t.Errorf("expected 2.0, got %v", got)
		}
	})

	t.Run("Nil Passes For Interface Target", func(t *testing.T) {
		got, err := assertInput[any]("n", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("Nil Fails For Concrete Target", func(t *testing.T) {
		_, err := assertInput[float64]("n", nil)
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
	})

	t.Run("Mismatch Names Both Types", func(t *testing.T) {
		_, err := assertInput[float64](double, "oops")
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
		if !strings.Contains(err.Error(), `step "double" expects float64, got string`) {
			t.Errorf("expected type detail in message, got %v", err)
		}
	})
}

func TestFuncName(t *testing.T) {
	t.Run("Named Function", func(t *testing.T) {
		if got := funcName(namedProbe); got != "chainz.namedProbe" {
			t.Errorf("expected chainz.namedProbe, got %s", got)
		}
	})

	t.Run("Nil Yields Empty", func(t *testing.T) {
		if got := funcName(nil); got != "" {
			t.Errorf("expected empty, got %s", got)
		}
	})

	t.Run("Non Function Yields Empty", func(t *testing.T) {
		if got := funcName("not a function"); got != "" {
			t.Errorf("expected empty, got %s", got)
		}
	})
}
