package chainz

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewKind(t *testing.T) {
	t.Run("Carries Name", func(t *testing.T) {
		scores := NewKind("scores")
		defer scores.Close()

		if scores.Name() != "scores" {
			t.Errorf("expected scores, got %s", scores.Name())
		}
	})

	t.Run("Observability Ready", func(t *testing.T) {
		scores := NewKind("scores")
		defer scores.Close()

		if scores.Metrics() == nil {
			t.Error("expected metrics registry to be initialized")
		}
		if scores.Tracer() == nil {
			t.Error("expected tracer to be initialized")
		}
		if runs := scores.Metrics().Counter(ChainRunsTotal).Value(); runs != 0 {
			t.Errorf("expected fresh counter, got %f", runs)
		}
	})

	t.Run("New Stamps Kind", func(t *testing.T) {
		scores := NewKind("scores")
		defer scores.Close()

		chain := scores.New(addOneStep())
		if chain.Kind() != scores {
			t.Error("expected chain to carry its kind")
		}
	})

	t.Run("ThenStep Keeps Kind", func(t *testing.T) {
		scores := NewKind("scores")
		defer scores.Close()

		chain := scores.New(addOneStep()).ThenStep(doubleStep())
		if chain.Kind() != scores {
			t.Error("expected composed chain to keep its kind")
		}
		if chain.Tail().Kind() != scores {
			t.Error("expected appended node to keep its kind")
		}
	})
}

func TestKindDefaultData(t *testing.T) {
	t.Run("Base Returns Marker", func(t *testing.T) {
		bare := NewKind("bare")
		defer bare.Close()

		if bare.DefaultData() != NotImplemented {
			t.Errorf("expected NotImplemented, got %v", bare.DefaultData())
		}
	})

	t.Run("Custom Hook", func(t *testing.T) {
		scores := NewKind("scores", WithDefaultData(func() any { return 0.0 }))
		defer scores.Close()

		if scores.DefaultData() != 0.0 {
			t.Errorf("expected 0.0, got %v", scores.DefaultData())
		}
	})
}

func TestKindWrap(t *testing.T) {
	t.Run("Base Takes First Argument", func(t *testing.T) {
		bare := NewKind("bare")
		defer bare.Close()

		if got := bare.Wrap(1.0, 2.0); got != 1.0 {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("Base Without Arguments Uses Default", func(t *testing.T) {
		scores := NewKind("scores", WithDefaultData(func() any { return 7.0 }))
		defer scores.Close()

		if got := scores.Wrap(); got != 7.0 {
			t.Errorf("expected 7.0, got %v", got)
		}
	})

	t.Run("Custom Hook Sees All Arguments", func(t *testing.T) {
		sums := NewKind("sums", WithWrap(func(args []any) any {
			total := 0.0
			for _, arg := range args {
				if x, ok := arg.(float64); ok {
					total += x
				}
			}
			return total
		}))
		defer sums.Close()

		if got := sums.Wrap(1.0, 2.0, 3.0); got != 6.0 {
			t.Errorf("expected 6.0, got %v", got)
		}
	})
}

func TestKindFromJSON(t *testing.T) {
	t.Run("Base Delegates To Wrap", func(t *testing.T) {
		bare := NewKind("bare")
		defer bare.Close()

		got, err := bare.FromJSON(2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 2.0 {
			t.Errorf("expected 2.0, got %v", got)
		}
	})

	t.Run("Custom Hook Converts", func(t *testing.T) {
		counts := NewKind("counts", WithFromJSON(func(v any) (any, error) {
			x, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("expected a number, got %T", v)
			}
			return int(x), nil
		}))
		defer counts.Close()

		got, err := counts.FromJSON(3.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 3 {
			t.Errorf("expected 3, got %v", got)
		}

		if _, err := counts.FromJSON("three"); err == nil {
			t.Error("expected error for non-numeric value")
		}
	})
}

func TestKindBaseValidator(t *testing.T) {
	t.Run("Base Echo Accepts Everything", func(t *testing.T) {
		bare := NewKind("bare")
		defer bare.Close()

		chain := bare.New(addOneStep())
		target, data, err := bare.BaseValidator().Validate(context.Background(), chain, 5.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target != chain {
			t.Error("expected the validated chain back")
		}
		if data != 5.0 {
			t.Errorf("expected 5.0, got %v", data)
		}
	})

	t.Run("Custom Hook", func(t *testing.T) {
		gated := NewKind("gated", WithBaseValidator(func() Validator {
			return NewCheck("always_no", func(_ context.Context, _ *Chain, _ any) Result {
				return Fail("nope")
			})
		}))
		defer gated.Close()

		chain := gated.New(addOneStep())
		_, _, err := gated.BaseValidator().Validate(context.Background(), chain, 5.0)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if vErr.Reason != "nope" {
			t.Errorf("expected nope, got %s", vErr.Reason)
		}
	})
}

func TestNotImplemented(t *testing.T) {
	t.Run("Prints Its Name", func(t *testing.T) {
		if got := fmt.Sprint(NotImplemented); got != "NotImplemented" {
			t.Errorf("expected NotImplemented, got %s", got)
		}
	})

	t.Run("Flows Through Erased Steps", func(t *testing.T) {
		echo := NewStep(echoStep, func(_ context.Context, data any) (any, error) {
			return data, nil
		})
		bare := NewKind("bare")
		defer bare.Close()

		result, err := bare.New(echo).Call(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != NotImplemented {
			t.Errorf("expected NotImplemented, got %v", result)
		}
	})
}

func TestKindClose(t *testing.T) {
	t.Run("Shuts Down Cleanly", func(t *testing.T) {
		scores := NewKind("scores")

		if err := scores.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
