// Package extract defines the text-extraction collaborator that turns a
// free-form experience description into a structured record. The dialogue
// never stalls on extraction problems: every failure has a typed kind and
// a fallback record that keeps the conversation moving.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
)

// FailureKind classifies why extraction did not produce a usable record.
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureMalformed  FailureKind = "malformed"
	FailureIncomplete FailureKind = "incomplete"
)

// Failure is the typed error returned by extractors. Callers are expected
// to branch on it explicitly rather than discard it.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("extraction failed: %s", f.Kind)
	}
	return fmt.Sprintf("extraction failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts the typed failure from an error chain. Errors raised
// outside the extractor contract (including context deadlines) are
// coerced so callers always see a kind.
func AsFailure(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: FailureTimeout, Err: err}
	}
	return &Failure{Kind: FailureMalformed, Err: err}
}

// Extractor converts one free-text experience message into a structured
// record or a *Failure.
type Extractor interface {
	Extract(ctx context.Context, text string) (candidate.Experience, error)
}

const (
	fallbackRole    = "Role not identified"
	fallbackResults = "Unstructured information"
)

// Fallback builds the degraded record used when extraction fails: the raw
// message becomes the responsibilities text and the remaining fields get
// placeholders.
func Fallback(text string) candidate.Experience {
	return candidate.Experience{
		Role:             fallbackRole,
		Responsibilities: text,
		Skills:           []string{},
		Results:          fallbackResults,
	}
}

// Disabled is the extractor used when no AI provider is configured. It
// always reports an incomplete failure so the caller takes the fallback
// path.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) (candidate.Experience, error) {
	return candidate.Experience{}, &Failure{Kind: FailureIncomplete, Err: errors.New("no extractor configured")}
}
