package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parthshr370/IntHR/internal/ai"
	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/logger"
	"github.com/parthshr370/IntHR/internal/match"
)

// Config assembles a pipeline. Nil weights fall back to the default split;
// a zero PassThreshold falls back to the level's threshold. Scorers are
// optional; without them the pipeline works only from pre-computed sheets.
type Config struct {
	Weights        match.Weights
	Level          assessment.Level
	PassThreshold  float64
	CategoryScorer ai.CategoryScorer
	AnswerScorer   ai.AnswerScorer
	Cache          *Cache
}

// Pipeline runs candidates through ingestion, scoring, and classification.
// It is safe for concurrent use; runs share no mutable state beyond the
// optional cache.
type Pipeline struct {
	matcher        *match.Matcher
	scorer         *assessment.Scorer
	classifier     *decision.Classifier
	categoryScorer ai.CategoryScorer
	answerScorer   ai.AnswerScorer
	level          assessment.Level
	cache          *Cache
	logger         *zap.Logger
}

// New validates the configuration and builds a pipeline. Invalid weights
// are a fatal configuration error, caught here rather than mid-run.
func New(cfg Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	matcher, err := match.NewMatcher(cfg.Weights, log)
	if err != nil {
		return nil, err
	}

	threshold := cfg.PassThreshold
	if threshold <= 0 && cfg.Level != "" {
		threshold = assessment.PassThreshold(cfg.Level)
	}

	return &Pipeline{
		matcher:        matcher,
		scorer:         assessment.NewScorer(threshold, log),
		classifier:     decision.NewClassifier(log),
		categoryScorer: cfg.CategoryScorer,
		answerScorer:   cfg.AnswerScorer,
		level:          cfg.Level,
		cache:          cfg.Cache,
		logger:         log,
	}, nil
}

// Request carries one candidate's input documents. MatchSheetJSON and
// AssessmentJSON are optional; when the match sheet is absent the configured
// provider is asked instead.
type Request struct {
	CandidateID     string
	ProfileJSON     []byte
	RequirementJSON []byte
	MatchSheetJSON  []byte
	AssessmentJSON  []byte
}

type matchOutcome struct {
	analysis    *match.Analysis
	status      StageStatus
	reason      string
	errorSignal bool
	err         error
	duration    time.Duration
}

type assessOutcome struct {
	report   *assessment.Report
	status   StageStatus
	reason   string
	notes    []string
	err      error
	duration time.Duration
}

// Run executes the full pipeline for one candidate. Only an ingestion
// failure aborts the run; every later stage runs on whatever artifacts
// exist, and a decision is always produced unless the run was cancelled.
func (p *Pipeline) Run(ctx context.Context, req Request) *Result {
	result := &Result{
		RunID:       uuid.NewString(),
		CandidateID: req.CandidateID,
		Stages:      make(map[Stage]StageResult, 4),
	}
	log := logger.WithRun(p.logger, result.RunID, result.CandidateID)

	start := time.Now()
	profile, perr := candidate.ParseProfile(req.ProfileJSON)
	var requirement *candidate.Requirement
	var rerr error
	if perr == nil {
		requirement, rerr = candidate.ParseRequirement(req.RequirementJSON)
	}
	if err := multierr.Combine(perr, rerr); err != nil {
		result.Stages[StageIngest] = StageResult{Status: StageFailed, Reason: err.Error(), Duration: time.Since(start)}
		for _, s := range []Stage{StageMatch, StageAssessment, StageDecision} {
			result.Stages[s] = StageResult{Status: StageSkipped, Reason: "ingestion failed"}
		}
		result.Err = err
		log.Error("ingestion failed", zap.Error(err))
		return result
	}

	result.Profile = profile
	result.Requirement = requirement
	if result.CandidateID == "" {
		result.CandidateID = profile.PersonalInfo.Name
		log = logger.WithRun(p.logger, result.RunID, result.CandidateID)
	}
	result.Stages[StageIngest] = StageResult{Status: StageOK, Duration: time.Since(start)}
	p.cache.Put(result.CandidateID, StageIngest, profile)
	log.Info("ingested candidate", zap.String("job", requirement.Title))

	// The two scoring branches have no data dependency on each other.
	var (
		mo matchOutcome
		ao assessOutcome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mo = p.runMatch(gctx, profile, requirement, req.MatchSheetJSON)
		return nil
	})
	g.Go(func() error {
		ao = p.runAssessment(gctx, req.AssessmentJSON)
		return nil
	})
	_ = g.Wait()

	result.Analysis = mo.analysis
	result.Stages[StageMatch] = StageResult{Status: mo.status, Reason: mo.reason, Duration: mo.duration}
	if mo.analysis != nil {
		p.cache.Put(result.CandidateID, StageMatch, mo.analysis)
	}
	log.Info("match stage finished", zap.String("status", string(mo.status)), zap.Duration("duration", mo.duration))

	result.Assessment = ao.report
	if ao.report != nil && ao.report.CandidateName == "" {
		ao.report.CandidateName = profile.PersonalInfo.Name
	}
	result.Stages[StageAssessment] = StageResult{Status: ao.status, Reason: ao.reason, Duration: ao.duration}
	if ao.report != nil {
		p.cache.Put(result.CandidateID, StageAssessment, ao.report)
	}
	log.Info("assessment stage finished", zap.String("status", string(ao.status)), zap.Duration("duration", ao.duration))

	result.Notes = append(result.Notes, ao.notes...)
	result.Err = multierr.Combine(mo.err, ao.err)

	if ctx.Err() != nil {
		result.Stages[StageDecision] = StageResult{Status: StageCancelled, Reason: "cancelled before classification"}
		result.Err = multierr.Append(result.Err, ctx.Err())
		log.Warn("pipeline cancelled", zap.Error(ctx.Err()))
		return result
	}

	start = time.Now()
	result.Decision = p.classifier.Classify(decision.Input{
		Analysis:    result.Analysis,
		Assessment:  result.Assessment,
		ErrorSignal: mo.errorSignal,
	})
	decisionStage := StageResult{Status: StageOK, Duration: time.Since(start)}
	if result.Analysis == nil {
		decisionStage.Status = StageDegraded
		decisionStage.Reason = "no match analysis; default decision"
	}
	result.Stages[StageDecision] = decisionStage
	p.cache.Put(result.CandidateID, StageDecision, result.Decision)

	log.Info("pipeline finished",
		zap.String("decision", string(result.Decision.Details.Status)),
		zap.String("stage", string(result.Decision.Details.InterviewStage)),
		zap.Float64("confidence", result.Decision.Details.ConfidenceScore),
	)
	return result
}

func (p *Pipeline) runMatch(ctx context.Context, profile *candidate.Profile, req *candidate.Requirement, sheetJSON []byte) matchOutcome {
	start := time.Now()
	out := matchOutcome{status: StageOK}

	var sheet *match.Sheet
	switch {
	case len(sheetJSON) > 0:
		parsed, err := match.ParseSheet(sheetJSON)
		if err != nil {
			out.status = StageFailed
			out.err = fmt.Errorf("match sheet: %w", err)
			out.reason = out.err.Error()
			out.errorSignal = true
		} else {
			sheet = parsed
		}
	case p.categoryScorer != nil:
		scored, err := p.categoryScorer.ScoreMatch(ctx, profile, req)
		switch {
		case err == nil:
			sheet = scored
		case ctx.Err() != nil:
			out.status = StageCancelled
			out.reason = "cancelled"
		default:
			out.status = StageFailed
			out.err = fmt.Errorf("score match: %w", err)
			out.reason = out.err.Error()
			out.errorSignal = true
		}
	default:
		out.status = StageSkipped
		out.reason = "no score sheet provided and no provider configured"
	}

	if sheet != nil {
		out.analysis = p.matcher.Compute(req, sheet)
		if sheet.ErrorSignal {
			out.errorSignal = true
			out.status = StageDegraded
			out.reason = "scorer reported an error"
		}
	}
	out.duration = time.Since(start)
	return out
}

func (p *Pipeline) runAssessment(ctx context.Context, data []byte) (out assessOutcome) {
	start := time.Now()
	out.status = StageOK
	defer func() { out.duration = time.Since(start) }()

	if len(data) == 0 {
		out.status = StageSkipped
		out.reason = "no assessment provided"
		return out
	}

	sheet, err := assessment.ParseSheet(data)
	if err != nil {
		out.status = StageFailed
		out.err = fmt.Errorf("assessment sheet: %w", err)
		out.reason = out.err.Error()
		return out
	}

	if p.answerScorer != nil && unscored(sheet) {
		scored, err := p.answerScorer.ScoreAnswers(ctx, sheet)
		switch {
		case err == nil:
			sheet = scored
		case ctx.Err() != nil:
			out.status = StageCancelled
			out.reason = "cancelled"
			return out
		default:
			out.status = StageDegraded
			out.err = fmt.Errorf("score answers: %w", err)
			out.reason = out.err.Error()
			out.notes = append(out.notes, "answer scoring failed; unscored questions counted as zero")
		}
	}

	if p.level != "" {
		plan := assessment.PlanFor(p.level)
		out.notes = append(out.notes, plan.Check(sheet.Questions)...)
	}
	out.notes = append(out.notes, sheet.Notes...)

	report, err := p.scorer.Score(sheet)
	if err != nil {
		out.status = StageFailed
		out.err = fmt.Errorf("score assessment: %w", err)
		out.reason = out.err.Error()
		return out
	}
	out.report = report
	return out
}

// unscored reports whether no question on the sheet carries a score yet.
func unscored(sheet *assessment.Sheet) bool {
	for _, q := range sheet.Questions {
		if q.Score != nil {
			return false
		}
	}
	return len(sheet.Questions) > 0
}
