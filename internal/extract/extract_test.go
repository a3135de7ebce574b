package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFallback(t *testing.T) {
	exp := Fallback("worked as a plumber for ten years")

	if exp.Responsibilities != "worked as a plumber for ten years" {
		t.Fatalf("raw text should become responsibilities, got %q", exp.Responsibilities)
	}
	if len(exp.Skills) != 0 || exp.Skills == nil {
		t.Fatalf("expected an empty, non-nil skill set, got %v", exp.Skills)
	}
	if exp.Role == "" || exp.Results == "" {
		t.Fatal("role and results must carry placeholders")
	}
}

func TestAsFailure(t *testing.T) {
	typed := &Failure{Kind: FailureIncomplete, Err: errors.New("no role")}
	if got := AsFailure(fmt.Errorf("wrapped: %w", typed)); got.Kind != FailureIncomplete {
		t.Fatalf("expected incomplete, got %s", got.Kind)
	}

	if got := AsFailure(context.DeadlineExceeded); got.Kind != FailureTimeout {
		t.Fatalf("deadline should map to timeout, got %s", got.Kind)
	}

	if got := AsFailure(errors.New("boom")); got.Kind != FailureMalformed {
		t.Fatalf("unknown errors should map to malformed, got %s", got.Kind)
	}
}

func TestDisabledExtractor(t *testing.T) {
	_, err := Disabled{}.Extract(context.Background(), "anything")
	if err == nil {
		t.Fatal("disabled extractor must fail")
	}
	if AsFailure(err).Kind != FailureIncomplete {
		t.Fatalf("expected incomplete failure, got %v", err)
	}
}
