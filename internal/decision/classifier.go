package decision

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/match"
	"github.com/parthshr370/IntHR/internal/util"
)

// StatusFor maps an overall match score to its decision band.
func StatusFor(score float64) Status {
	switch {
	case score >= 70:
		return StatusProceed
	case score >= 40:
		return StatusHold
	default:
		return StatusReject
	}
}

// StageFor maps a status and confidence to the recommended interview stage.
// Only a PROCEED decision looks at confidence.
func StageFor(status Status, confidence float64) Stage {
	switch status {
	case StatusProceed:
		if confidence >= 85 {
			return StageFullLoop
		}
		return StageTechnical
	case StatusHold:
		return StageScreening
	default:
		return StageSkip
	}
}

// Input carries everything the classifier may consider. Assessment is
// optional; ErrorSignal reports that an upstream stage failed or the scorer
// flagged an error, which argues against reading a low score as a genuine
// mismatch.
type Input struct {
	Analysis    *match.Analysis
	Assessment  *assessment.Report
	ErrorSignal bool
}

// Classifier derives hiring decisions from match analyses. It is stateless
// and deterministic: the same input always yields the same decision.
type Classifier struct {
	logger *zap.Logger
}

func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify produces the decision for one candidate. A zero score caused by a
// processing fault holds the candidate for review instead of rejecting them;
// only the confidence score and the notes carry the doubt.
func (c *Classifier) Classify(in Input) *Decision {
	if in.Analysis == nil {
		return DefaultDecision("no match analysis available")
	}
	a := in.Analysis

	score := float64(a.MatchScore)
	notes := append([]string{}, a.DataQualityNotes...)

	assessed, zeroes := 0, 0
	for _, cat := range match.Categories() {
		cs, ok := a.Categories[cat]
		if !ok || cs.NotAssessed() {
			continue
		}
		assessed++
		if cs.Score == 0 {
			zeroes++
		}
	}
	missing := assessed < len(match.Categories())
	allZero := assessed == len(match.Categories()) && zeroes == assessed

	if in.ErrorSignal {
		notes = append(notes, "upstream processing error reported")
	}
	if allZero {
		notes = append(notes, "all categories scored zero; possible processing fault")
	}

	confidence := score
	fault := in.ErrorSignal || allZero
	if fault {
		confidence -= 15
	}
	if missing {
		confidence -= 10
	}
	confidence = util.Clamp(confidence, 0, 100)

	status := StatusFor(score)
	if fault && status == StatusReject {
		status = StatusHold
		notes = append(notes, "rejection withheld pending manual review")
	}
	stage := StageFor(status, confidence)

	d := &Decision{
		Details: Details{
			Status:          status,
			ConfidenceScore: confidence,
			InterviewStage:  stage,
		},
		Rationale:        c.rationale(a),
		Recommendations:  c.recommendations(a),
		ManagerNotes:     managerNotes(status),
		NextSteps:        nextSteps(status, stage),
		DataQualityNotes: notes,
	}
	c.applyAssessment(d, in.Assessment)

	c.logger.Debug("classified candidate",
		zap.Int("match_score", a.MatchScore),
		zap.String("status", string(status)),
		zap.Float64("confidence", confidence),
		zap.String("stage", string(stage)),
	)
	return d
}

// rationale builds key strengths, concerns, and risk factors from the
// analysis. Gaps in a category scoring below 40 are risks; gaps elsewhere
// are concerns. The not-assessed marker is bookkeeping, not a finding, and
// is excluded from both.
func (c *Classifier) rationale(a *match.Analysis) Rationale {
	r := Rationale{
		KeyStrengths: append([]string{}, a.KeyStrengths...),
		Concerns:     []string{},
		RiskFactors:  []string{},
	}

	for _, cat := range match.Categories() {
		cs, ok := a.Categories[cat]
		if !ok {
			continue
		}
		for _, gap := range cs.Gaps {
			if gap == match.NotAssessedGap {
				continue
			}
			if cs.Score < 40 {
				r.RiskFactors = append(r.RiskFactors, gap)
			} else {
				r.Concerns = append(r.Concerns, gap)
			}
		}
	}

	if len(r.KeyStrengths) == 0 {
		for _, cat := range match.Categories() {
			if cs, ok := a.Categories[cat]; ok && cs.Score >= 70 {
				r.KeyStrengths = append(r.KeyStrengths, cs.Matches...)
			}
		}
	}
	return r
}

func (c *Classifier) recommendations(a *match.Analysis) Recommendations {
	rec := Recommendations{
		InterviewFocus:    []string{},
		SkillVerification: []string{},
		DiscussionPoints:  append([]string{}, a.AreasForConsideration...),
	}

	for _, cat := range weakestAssessed(a, 2) {
		rec.InterviewFocus = append(rec.InterviewFocus, focusFor(cat))
	}

	if skills, ok := a.Categories[match.CategorySkills]; ok && !skills.NotAssessed() {
		for _, gap := range skills.Gaps {
			rec.SkillVerification = append(rec.SkillVerification, fmt.Sprintf("Verify: %s", gap))
		}
	}
	return rec
}

// applyAssessment folds a technical assessment into the rationale and the
// interview focus. It never moves the decision band; the match score alone
// owns that.
func (c *Classifier) applyAssessment(d *Decision, r *assessment.Report) {
	if r == nil {
		return
	}
	if r.Status == assessment.StatusPass {
		d.Rationale.KeyStrengths = append(d.Rationale.KeyStrengths,
			fmt.Sprintf("Strong %s performance in the technical assessment", strings.ToLower(r.StrongestCategory.Display())))
		return
	}
	d.Rationale.RiskFactors = append(d.Rationale.RiskFactors,
		fmt.Sprintf("Technical assessment below the pass bar (%.2f/100)", r.OverallScore))
	d.Recommendations.InterviewFocus = append(d.Recommendations.InterviewFocus,
		fmt.Sprintf("Revisit %s fundamentals", strings.ToLower(r.WeakestCategory.Display())))
}

// weakestAssessed returns up to n assessed categories ordered by ascending
// score, ties resolving to canonical category order.
func weakestAssessed(a *match.Analysis, n int) []match.Category {
	type entry struct {
		cat   match.Category
		score float64
	}
	var entries []entry
	for _, cat := range match.Categories() {
		if cs, ok := a.Categories[cat]; ok && !cs.NotAssessed() {
			entries = append(entries, entry{cat, cs.Score})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].score < entries[j].score })
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]match.Category, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.cat)
	}
	return out
}

func focusFor(cat match.Category) string {
	switch cat {
	case match.CategorySkills:
		return "Technical skills verification"
	case match.CategoryExperience:
		return "Experience depth and ownership"
	case match.CategoryEducation:
		return "Educational background relevance"
	default:
		return "Certifications, projects, and other signals"
	}
}

func managerNotes(status Status) ManagerNotes {
	switch status {
	case StatusProceed:
		return ManagerNotes{
			SalaryBandFit:          "Within standard band for the role",
			GrowthTrajectory:       "Good growth potential based on matched strengths",
			TeamFitConsiderations:  "Proceed to team fit evaluation",
			OnboardingRequirements: []string{"Standard onboarding process"},
		}
	case StatusHold:
		return ManagerNotes{
			SalaryBandFit:          "Pending assessment",
			GrowthTrajectory:       "To be evaluated",
			TeamFitConsiderations:  "Awaiting team fit analysis",
			OnboardingRequirements: []string{"Standard onboarding process"},
		}
	default:
		return ManagerNotes{
			SalaryBandFit:          "Not applicable",
			GrowthTrajectory:       "Not applicable",
			TeamFitConsiderations:  "Profile does not meet current requirements",
			OnboardingRequirements: []string{},
		}
	}
}

func nextSteps(status Status, stage Stage) NextSteps {
	switch status {
	case StatusProceed:
		steps := NextSteps{
			ImmediateActions:  []string{"Schedule technical interview"},
			RequiredApprovals: []string{"Hiring manager approval needed"},
		}
		if stage == StageFullLoop {
			steps.ImmediateActions = []string{"Schedule full interview loop"}
			steps.TimelineRecommendation = "Proceed within one week"
		} else {
			steps.TimelineRecommendation = "Proceed within two weeks"
		}
		return steps
	case StatusHold:
		return NextSteps{
			ImmediateActions:       []string{"Schedule screening call", "Request additional information for noted gaps"},
			RequiredApprovals:      []string{"Initial screening pending"},
			TimelineRecommendation: "Revisit after screening results",
		}
	default:
		return NextSteps{
			ImmediateActions:       []string{"Send decline notice", "Keep profile on file for future roles"},
			RequiredApprovals:      []string{},
			TimelineRecommendation: "No further action required",
		}
	}
}
