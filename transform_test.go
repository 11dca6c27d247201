package chainz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTransform(t *testing.T) {
	t.Run("Basic Transform", func(t *testing.T) {
		toUpper := Transform("to_upper", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})
		chain := New(toUpper)

		result, err := chain.Run(context.Background(), "hello")
		if err != nil {
			t.Fatalf("transform should not return error: %v", err)
		}
		if result != "HELLO" {
			t.Errorf("expected HELLO, got %s", result)
		}
	})

	t.Run("Transform Never Returns Error", func(t *testing.T) {
		divider := Transform("divide", func(_ context.Context, n int) int {
			if n == 0 {
				return 0 // Transform can't return error, must handle internally
			}
			return 100 / n
		})
		chain := New(divider)

		result, err := chain.Run(context.Background(), 0)
		if err != nil {
			t.Fatalf("transform should never return error: %v", err)
		}
		if result != 0 {
			t.Errorf("expected 0, got %d", result)
		}
	})

	t.Run("Changes Output Type", func(t *testing.T) {
		render := Transform(toString, func(_ context.Context, _ any) string {
			return "rendered"
		})
		if render.InputLabel() != "any" {
			t.Errorf("expected input label any, got %s", render.InputLabel())
		}
		if render.OutputLabel() != "string" {
			t.Errorf("expected output label string, got %s", render.OutputLabel())
		}

		result, err := New(render).Run(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "rendered" {
			t.Errorf("expected rendered, got %v", result)
		}
	})

	t.Run("Transform With Context Check", func(t *testing.T) {
		transformer := Transform("context_aware", func(ctx context.Context, s string) string {
			select {
			case <-ctx.Done():
				return "canceled"
			default:
				return s + "_processed"
			}
		})

		result, err := New(transformer).Run(context.Background(), "test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "test_processed" {
			t.Errorf("expected test_processed, got %s", result)
		}
	})

	t.Run("Rejects Mismatched Input", func(t *testing.T) {
		doubler := Transform(double, func(_ context.Context, x float64) float64 {
			return x * 2
		})

		_, err := New(doubler).Run(context.Background(), "not a number")
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
		if !strings.Contains(err.Error(), "expects float64, got string") {
			t.Errorf("expected type detail in message, got %v", err)
		}
	})
}
