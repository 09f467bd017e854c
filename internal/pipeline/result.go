// Package pipeline sequences the per-candidate stages: ingestion, match
// scoring, assessment scoring, and decision classification. Stage failures
// are isolated so later stages still run on whatever artifacts exist.
package pipeline

import (
	"time"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/match"
)

// Stage identifies one pipeline stage.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageMatch      Stage = "match"
	StageAssessment Stage = "assessment"
	StageDecision   Stage = "decision"
)

// Stages returns the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StageIngest, StageMatch, StageAssessment, StageDecision}
}

// StageStatus is the recorded outcome of one stage.
type StageStatus string

const (
	StageOK        StageStatus = "ok"
	StageDegraded  StageStatus = "degraded"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
	StageCancelled StageStatus = "cancelled"
)

// StageResult records how one stage ended.
type StageResult struct {
	Status   StageStatus   `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result is everything one candidate run produced. Artifacts for stages that
// failed or were skipped are nil; Stages records why.
type Result struct {
	RunID       string
	CandidateID string

	Profile     *candidate.Profile
	Requirement *candidate.Requirement
	Analysis    *match.Analysis
	Assessment  *assessment.Report
	Decision    *decision.Decision

	Stages map[Stage]StageResult
	Notes  []string
	Err    error
}

// Degraded reports whether any stage ended below ok. Skipped stages do not
// count; not providing an assessment is a normal run shape.
func (r *Result) Degraded() bool {
	for _, stage := range r.Stages {
		switch stage.Status {
		case StageDegraded, StageFailed, StageCancelled:
			return true
		}
	}
	return false
}

// Cancelled reports whether the run was cut short by context cancellation.
func (r *Result) Cancelled() bool {
	for _, stage := range r.Stages {
		if stage.Status == StageCancelled {
			return true
		}
	}
	return false
}
