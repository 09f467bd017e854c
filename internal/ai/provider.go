// Package ai defines the boundary to external scoring generators. The
// pipeline depends only on these interfaces; concrete providers live in
// subpackages and tests substitute stubs.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/match"
)

// CategoryScorer produces a raw category score sheet for a candidate
// against a job requirement.
type CategoryScorer interface {
	ScoreMatch(ctx context.Context, profile *candidate.Profile, req *candidate.Requirement) (*match.Sheet, error)
}

// AnswerScorer scores the answers on an assessment sheet, returning a sheet
// with per-question scores and feedback filled in.
type AnswerScorer interface {
	ScoreAnswers(ctx context.Context, sheet *assessment.Sheet) (*assessment.Sheet, error)
}

// ServiceError wraps a provider failure with enough context for the retry
// policy and the pipeline to react. Temporary failures are retried;
// permanent ones (bad credentials, malformed request) are not.
type ServiceError struct {
	Provider  string
	Err       error
	Temporary bool
	Timeout   bool
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timeout: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt against the provider could
// succeed.
func Retryable(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Temporary
}
