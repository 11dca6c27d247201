package chainz

import (
	"context"
	"errors"
	"testing"
)

func TestEffect(t *testing.T) {
	t.Run("Effect Pass", func(t *testing.T) {
		var executed bool
		logger := Effect("log", func(_ context.Context, _ string) error {
			executed = true
			return nil
		})

		result, err := New(logger).Run(context.Background(), "test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "test" {
			t.Errorf("effect should not modify data")
		}
		if !executed {
			t.Error("effect should have executed")
		}
	})

	t.Run("Effect Fail", func(t *testing.T) {
		validator := Effect("validate", func(_ context.Context, s string) error {
			if s == "" {
				return errors.New("empty string not allowed")
			}
			return nil
		})

		_, err := New(validator).Run(context.Background(), "")
		if err == nil {
			t.Fatal("expected error for empty string")
		}

		result, err := New(validator).Run(context.Background(), "ok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "ok" {
			t.Errorf("expected ok, got %v", result)
		}
	})

	t.Run("Data Flows Through Unchanged", func(t *testing.T) {
		var seen float64
		observe := Effect("observe", func(_ context.Context, x float64) error {
			seen = x
			return nil
		})
		chain := New(addOneStep()).ThenStep(observe).ThenStep(doubleStep())

		result, err := chain.Run(context.Background(), 10.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 22.0 {
			t.Errorf("expected 22.0, got %v", result)
		}
		if seen != 11.0 {
			t.Errorf("expected effect to observe 11.0, got %v", seen)
		}
	})

	t.Run("Labels Match Input Type", func(t *testing.T) {
		observe := Effect("observe", func(_ context.Context, _ float64) error { return nil })

		if observe.InputLabel() != "float64" {
			t.Errorf("expected input label float64, got %s", observe.InputLabel())
		}
		if observe.OutputLabel() != "float64" {
			t.Errorf("expected output label float64, got %s", observe.OutputLabel())
		}
	})

	t.Run("Rejects Mismatched Input", func(t *testing.T) {
		observe := Effect("observe", func(_ context.Context, _ float64) error { return nil })

		_, err := New(observe).Run(context.Background(), "not a number")
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
	})
}
