package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/match"
)

var (
	profileJSON = []byte(`{
		"personal_info": {"name": "Dana Smith", "email": "dana@example.com"},
		"skills": ["Go", "PostgreSQL"]
	}`)
	requirementJSON = []byte(`{
		"title": "Backend Engineer",
		"required_skills": ["Go", "Kubernetes"]
	}`)
	matchSheetJSON = []byte(`{
		"match_score": 83,
		"analysis": {
			"skills": {"score": 90, "matches": ["Go"], "gaps": ["Kubernetes"]},
			"experience": {"score": 75},
			"education": {"score": 80},
			"additional": {"score": 85}
		},
		"recommendation": "Recommend interview"
	}`)
	assessmentJSON = []byte(`{
		"assessment_id": "a-1",
		"questions": [
			{"id": "code_1", "category": "coding", "score": 85, "feedback": "Solid."},
			{"id": "behavior_1", "category": "behavioral", "score": 75, "feedback": "Concrete.", "passion_signal": 0.8}
		]
	}`)
)

type stubCategoryScorer struct {
	sheet *match.Sheet
	err   error
	calls int
}

func (s *stubCategoryScorer) ScoreMatch(context.Context, *candidate.Profile, *candidate.Requirement) (*match.Sheet, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.sheet, nil
}

type stubAnswerScorer struct {
	score float64
	err   error
	calls int
}

func (s *stubAnswerScorer) ScoreAnswers(_ context.Context, in *assessment.Sheet) (*assessment.Sheet, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *in
	out.Questions = append([]assessment.Question(nil), in.Questions...)
	for i := range out.Questions {
		score := s.score
		out.Questions[i].Score = &score
		out.Questions[i].Feedback = "Scored."
	}
	return &out, nil
}

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestRunFullPipeline(t *testing.T) {
	p := newPipeline(t, Config{})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
		AssessmentJSON:  assessmentJSON,
	})

	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
	if result.CandidateID != "Dana Smith" {
		t.Fatalf("expected candidate id from profile, got %q", result.CandidateID)
	}
	for _, stage := range Stages() {
		if got := result.Stages[stage].Status; got != StageOK {
			t.Fatalf("expected stage %s ok, got %s (%s)", stage, got, result.Stages[stage].Reason)
		}
	}

	if result.Analysis == nil || result.Analysis.MatchScore != 83 {
		t.Fatalf("unexpected analysis: %+v", result.Analysis)
	}
	if result.Assessment == nil || result.Assessment.OverallScore != 80.0 {
		t.Fatalf("unexpected assessment: %+v", result.Assessment)
	}
	if result.Decision == nil || result.Decision.Details.Status != decision.StatusProceed {
		t.Fatalf("unexpected decision: %+v", result.Decision)
	}
	if result.Degraded() {
		t.Fatal("expected a clean run")
	}
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
}

func TestRunParseErrorAborts(t *testing.T) {
	p := newPipeline(t, Config{})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     []byte(`{"personal_info": {}}`),
		RequirementJSON: requirementJSON,
	})

	if result.Stages[StageIngest].Status != StageFailed {
		t.Fatalf("expected ingest failure, got %+v", result.Stages[StageIngest])
	}
	for _, stage := range []Stage{StageMatch, StageAssessment, StageDecision} {
		if got := result.Stages[stage].Status; got != StageSkipped {
			t.Fatalf("expected stage %s skipped, got %s", stage, got)
		}
	}
	if result.Decision != nil {
		t.Fatal("expected no decision after ingest failure")
	}
	if !candidate.IsParseError(result.Err) {
		t.Fatalf("expected a parse error, got %v", result.Err)
	}
}

func TestRunWithoutMatchInputs(t *testing.T) {
	p := newPipeline(t, Config{})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
	})

	if got := result.Stages[StageMatch].Status; got != StageSkipped {
		t.Fatalf("expected match skipped, got %s", got)
	}
	if got := result.Stages[StageDecision].Status; got != StageDegraded {
		t.Fatalf("expected degraded decision stage, got %s", got)
	}

	d := result.Decision
	if d == nil || d.Details.Status != decision.StatusHold || d.Details.ConfidenceScore != 30 {
		t.Fatalf("expected the default hold decision, got %+v", d)
	}
	if !result.Degraded() {
		t.Fatal("expected run to report degradation")
	}
}

func TestRunProviderScoring(t *testing.T) {
	catScorer := &stubCategoryScorer{sheet: &match.Sheet{
		Categories: map[match.Category]match.CategoryScore{
			match.CategorySkills:     {Score: 90, Matches: []string{"Go"}, Gaps: []string{}},
			match.CategoryExperience: {Score: 80, Matches: []string{}, Gaps: []string{}},
			match.CategoryEducation:  {Score: 70, Matches: []string{}, Gaps: []string{}},
			match.CategoryAdditional: {Score: 60, Matches: []string{}, Gaps: []string{}},
		},
		Recommendation: "Recommend interview",
	}}
	ansScorer := &stubAnswerScorer{score: 90}

	p := newPipeline(t, Config{CategoryScorer: catScorer, AnswerScorer: ansScorer})

	unscoredAssessment := []byte(`{
		"questions": [
			{"id": "code_1", "category": "coding", "answer": "func main() {}"}
		]
	}`)
	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		AssessmentJSON:  unscoredAssessment,
	})

	if catScorer.calls != 1 {
		t.Fatalf("expected 1 category scoring call, got %d", catScorer.calls)
	}
	if ansScorer.calls != 1 {
		t.Fatalf("expected 1 answer scoring call, got %d", ansScorer.calls)
	}

	// 90*0.40 + 80*0.30 + 70*0.20 + 60*0.10 = 80
	if result.Analysis == nil || result.Analysis.MatchScore != 80 {
		t.Fatalf("unexpected analysis: %+v", result.Analysis)
	}
	if result.Assessment == nil || result.Assessment.OverallScore != 90.0 {
		t.Fatalf("unexpected assessment: %+v", result.Assessment)
	}
	if result.Degraded() {
		t.Fatal("expected a clean run")
	}
}

func TestRunProviderNotCalledForScoredSheet(t *testing.T) {
	ansScorer := &stubAnswerScorer{score: 10}
	p := newPipeline(t, Config{AnswerScorer: ansScorer})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
		AssessmentJSON:  assessmentJSON,
	})

	if ansScorer.calls != 0 {
		t.Fatalf("expected no scoring call for an already scored sheet, got %d", ansScorer.calls)
	}
	if result.Assessment.OverallScore != 80.0 {
		t.Fatalf("unexpected assessment score: %v", result.Assessment.OverallScore)
	}
}

func TestRunProviderFailure(t *testing.T) {
	boom := errors.New("upstream down")
	p := newPipeline(t, Config{CategoryScorer: &stubCategoryScorer{err: boom}})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
	})

	if got := result.Stages[StageMatch].Status; got != StageFailed {
		t.Fatalf("expected match failure, got %s", got)
	}
	if !errors.Is(result.Err, boom) {
		t.Fatalf("expected provider error in chain, got %v", result.Err)
	}

	// The candidate is still classified, on the degraded default path.
	if result.Decision == nil || result.Decision.Details.Status != decision.StatusHold {
		t.Fatalf("expected default hold decision, got %+v", result.Decision)
	}
	if !result.Degraded() {
		t.Fatal("expected run to report degradation")
	}
}

func TestRunErrorSignalSheet(t *testing.T) {
	p := newPipeline(t, Config{})

	errorSheet := []byte(`{
		"error": "model returned empty response",
		"match_score": 0,
		"analysis": {
			"skills": {"score": 0},
			"experience": {"score": 0},
			"education": {"score": 0},
			"additional": {"score": 0}
		}
	}`)
	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  errorSheet,
	})

	if got := result.Stages[StageMatch].Status; got != StageDegraded {
		t.Fatalf("expected degraded match stage, got %s", got)
	}

	d := result.Decision
	if d == nil {
		t.Fatal("expected a decision")
	}
	if d.Details.Status == decision.StatusReject {
		t.Fatal("a processing fault must never produce a rejection")
	}
	if len(d.DataQualityNotes) == 0 {
		t.Fatal("expected data quality notes on the decision")
	}
}

func TestRunAnswerScoringFailureDegrades(t *testing.T) {
	boom := errors.New("upstream down")
	p := newPipeline(t, Config{AnswerScorer: &stubAnswerScorer{err: boom}})

	unscoredAssessment := []byte(`{
		"questions": [{"id": "code_1", "category": "coding", "answer": "x"}]
	}`)
	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
		AssessmentJSON:  unscoredAssessment,
	})

	if got := result.Stages[StageAssessment].Status; got != StageDegraded {
		t.Fatalf("expected degraded assessment stage, got %s", got)
	}
	if result.Assessment == nil {
		t.Fatal("expected a report from the unscored sheet")
	}
	if result.Assessment.OverallScore != 0 || result.Assessment.UnansweredCount != 1 {
		t.Fatalf("unexpected report: %+v", result.Assessment)
	}

	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "answer scoring failed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a scoring-failure note, got %v", result.Notes)
	}
}

func TestRunPlanCheckNotes(t *testing.T) {
	p := newPipeline(t, Config{Level: assessment.LevelMid})

	result := p.Run(context.Background(), Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
		AssessmentJSON:  assessmentJSON,
	})

	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "differs from the mid plan") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected plan deviation notes, got %v", result.Notes)
	}

	// The mid threshold is 70; this sheet averages 80.
	if result.Assessment.Status != assessment.StatusPass {
		t.Fatalf("expected pass at the mid threshold, got %s", result.Assessment.Status)
	}
}

func TestRunCancelled(t *testing.T) {
	p := newPipeline(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := p.Run(ctx, Request{
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
	})

	if result.Decision != nil {
		t.Fatal("expected no decision on a cancelled run")
	}
	if got := result.Stages[StageDecision].Status; got != StageCancelled {
		t.Fatalf("expected cancelled decision stage, got %s", got)
	}
	if !result.Cancelled() {
		t.Fatal("expected Cancelled() to report true")
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", result.Err)
	}
}

func TestRunWritesCache(t *testing.T) {
	cache := NewCache()
	p := newPipeline(t, Config{Cache: cache})

	result := p.Run(context.Background(), Request{
		CandidateID:     "dana",
		ProfileJSON:     profileJSON,
		RequirementJSON: requirementJSON,
		MatchSheetJSON:  matchSheetJSON,
	})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	if _, ok := cache.Get("dana", StageIngest); !ok {
		t.Fatal("expected cached profile")
	}
	if _, ok := cache.Get("dana", StageMatch); !ok {
		t.Fatal("expected cached analysis")
	}
	if _, ok := cache.Get("dana", StageDecision); !ok {
		t.Fatal("expected cached decision")
	}
	if _, ok := cache.Get("dana", StageAssessment); ok {
		t.Fatal("expected no cached assessment for a run without one")
	}
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	_, err := New(Config{Weights: match.Weights{match.CategorySkills: 1.5}}, nil)
	if err == nil {
		t.Fatal("expected weight validation error")
	}
}
