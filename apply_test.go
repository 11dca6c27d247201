package chainz

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestApply(t *testing.T) {
	t.Run("Apply Success", func(t *testing.T) {
		parser := Apply("parse_float", func(_ context.Context, s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})

		if parser.Name() != "parse_float" {
			t.Errorf("expected name parse_float, got %q", parser.Name())
		}

		result, err := New(parser).Run(context.Background(), "1.5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 1.5 {
			t.Errorf("expected 1.5, got %v", result)
		}
	})

	t.Run("Apply Error", func(t *testing.T) {
		parser := Apply("parse", func(_ context.Context, s string) (string, error) {
			if s == "" {
				return "", errors.New("empty string")
			}
			return s, nil
		})

		_, err := New(parser).Run(context.Background(), "")
		if err == nil {
			t.Fatal("expected error for empty string")
		}

		var chainErr *Error
		if !errors.As(err, &chainErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if !strings.Contains(chainErr.Err.Error(), "empty string") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Error Short Circuits", func(t *testing.T) {
		callCount := 0
		failing := Apply("fail", func(_ context.Context, s string) (string, error) {
			return s, errors.New("nope")
		})
		counting := Apply("count", func(_ context.Context, s string) (string, error) {
			callCount++
			return s, nil
		})

		_, err := New(failing).ThenStep(counting).Run(context.Background(), "x")
		if err == nil {
			t.Fatal("expected error")
		}
		if callCount != 0 {
			t.Errorf("expected downstream step to be skipped, got %d calls", callCount)
		}
	})

	t.Run("Context Propagates", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		aware := Apply("context_aware", func(ctx context.Context, s string) (string, error) {
			cancel()
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return s, nil
		})

		_, err := New(aware).Run(ctx, "x")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}

		var chainErr *Error
		if !errors.As(err, &chainErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if !chainErr.Canceled {
			t.Error("expected Canceled flag")
		}
	})

	t.Run("Rejects Mismatched Input", func(t *testing.T) {
		parser := Apply("parse", func(_ context.Context, s string) (string, error) {
			return s, nil
		})

		_, err := New(parser).Run(context.Background(), 42)
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
	})
}
