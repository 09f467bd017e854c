package assessment

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/util"
)

// ErrNoQuestions means the sheet carried nothing scorable.
var ErrNoQuestions = errors.New("assessment sheet has no questions")

// Status is the pass/fail outcome of an assessment.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// QuestionResult is one question's contribution to the report.
type QuestionResult struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// CategoryResult aggregates one category's questions.
type CategoryResult struct {
	Average      float64          `json:"average"`
	Questions    []QuestionResult `json:"questions"`
	Strengths    []string         `json:"strengths"`
	Improvements []string         `json:"improvements"`
}

// Report is the aggregated assessment outcome. Recomputing it from the same
// sheet yields bit-identical values.
type Report struct {
	AssessmentID      string                      `json:"assessment_id,omitempty"`
	CandidateName     string                      `json:"candidate_name,omitempty"`
	Categories        map[Category]CategoryResult `json:"categories"`
	OverallScore      float64                     `json:"overall_score"`
	Status            Status                      `json:"status"`
	TechnicalRating   float64                     `json:"technical_rating"`
	PassionRating     float64                     `json:"passion_rating"`
	StrongestCategory Category                    `json:"strongest_category"`
	WeakestCategory   Category                    `json:"weakest_category"`
	UnansweredCount   int                         `json:"unanswered_count"`
	PassThreshold     float64                     `json:"pass_threshold"`
}

// Average returns a category's mean score and whether the category had any
// questions at all.
func (r *Report) Average(c Category) (float64, bool) {
	result, ok := r.Categories[c]
	if !ok {
		return 0, false
	}
	return result.Average, true
}

// Scorer turns an answer sheet into a Report.
type Scorer struct {
	threshold float64
	logger    *zap.Logger
}

// NewScorer builds a Scorer with the given pass threshold. A non-positive
// threshold selects DefaultPassThreshold.
func NewScorer(threshold float64, logger *zap.Logger) *Scorer {
	if threshold <= 0 {
		threshold = DefaultPassThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{threshold: threshold, logger: logger}
}

// Score aggregates the sheet. Category averages count an unanswered
// question as 0; the overall score is the equal-weighted mean of only the
// categories that have questions.
func (s *Scorer) Score(sheet *Sheet) (*Report, error) {
	if sheet == nil || len(sheet.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	report := &Report{
		AssessmentID:  sheet.AssessmentID,
		CandidateName: sheet.CandidateName,
		Categories:    make(map[Category]CategoryResult, 3),
		PassThreshold: s.threshold,
	}

	var overallSum float64
	var present int
	for _, c := range Categories() {
		result, unanswered, ok := s.scoreCategory(c, sheet.Questions)
		if !ok {
			continue
		}
		report.Categories[c] = result
		report.UnansweredCount += unanswered
		overallSum += result.Average
		present++
	}

	report.OverallScore = util.Round2(overallSum / float64(present))
	if report.OverallScore >= s.threshold {
		report.Status = StatusPass
	} else {
		report.Status = StatusFail
	}

	report.TechnicalRating = s.technicalRating(report)
	report.PassionRating = s.passionRating(sheet.Questions)
	report.StrongestCategory, report.WeakestCategory = extremes(report)
	appendRatingFeedback(report)

	s.logger.Debug("scored assessment",
		zap.Float64("overall_score", report.OverallScore),
		zap.String("status", string(report.Status)),
		zap.Int("unanswered", report.UnansweredCount),
	)

	return report, nil
}

func (s *Scorer) scoreCategory(c Category, questions []Question) (CategoryResult, int, bool) {
	result := CategoryResult{
		Questions:    []QuestionResult{},
		Strengths:    []string{},
		Improvements: []string{},
	}

	var sum float64
	var count, unanswered int
	for _, q := range questions {
		if q.Category != c {
			continue
		}
		count++

		score := 0.0
		if q.Score != nil {
			score = util.Clamp(*q.Score, 0, 100)
		} else {
			unanswered++
		}
		sum += score

		result.Questions = append(result.Questions, QuestionResult{
			ID:       q.ID,
			Score:    score,
			Feedback: q.Feedback,
		})

		switch {
		case score >= 80:
			result.Strengths = append(result.Strengths, fmt.Sprintf("Strong performance in %s", q.ID))
		case score <= 60:
			result.Improvements = append(result.Improvements, fmt.Sprintf("Needs improvement in %s", q.ID))
		}
		result.Strengths = append(result.Strengths, q.Strengths...)
		result.Improvements = append(result.Improvements, q.Improvements...)
	}

	if count == 0 {
		return CategoryResult{}, 0, false
	}
	result.Average = util.Round2(sum / float64(count))
	return result, unanswered, true
}

// technicalRating is the mean of the coding and system-design averages on a
// 0-1 scale; with only one of the two present, that one alone.
func (s *Scorer) technicalRating(report *Report) float64 {
	var sum float64
	var n int
	for _, c := range []Category{CategoryCoding, CategorySystemDesign} {
		if avg, ok := report.Average(c); ok {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return util.Round2(sum / float64(n) / 100)
}

// passionRating averages the 0-1 passion signals attached to behavioral
// answers. Questions without a signal contribute nothing.
func (s *Scorer) passionRating(questions []Question) float64 {
	var sum float64
	var n int
	for _, q := range questions {
		if q.Category != CategoryBehavioral || q.PassionSignal == nil {
			continue
		}
		sum += util.Clamp(*q.PassionSignal, 0, 1)
		n++
	}
	if n == 0 {
		return 0
	}
	return util.Round2(sum / float64(n))
}

// extremes finds the strongest and weakest of the present categories. Ties
// resolve to the earliest category in priority order for both.
func extremes(report *Report) (strongest, weakest Category) {
	bestAvg, worstAvg := -1.0, 101.0
	for _, c := range Categories() {
		avg, ok := report.Average(c)
		if !ok {
			continue
		}
		if avg > bestAvg {
			bestAvg = avg
			strongest = c
		}
		if avg < worstAvg {
			worstAvg = avg
			weakest = c
		}
	}
	return strongest, weakest
}

// appendRatingFeedback adds the rating-derived strength and improvement
// lines to the category results.
func appendRatingFeedback(report *Report) {
	addStrength := func(c Category, lines ...string) {
		if result, ok := report.Categories[c]; ok {
			result.Strengths = append(result.Strengths, lines...)
			report.Categories[c] = result
		}
	}
	addImprovement := func(c Category, lines ...string) {
		if result, ok := report.Categories[c]; ok {
			result.Improvements = append(result.Improvements, lines...)
			report.Categories[c] = result
		}
	}

	switch {
	case report.TechnicalRating >= 0.8:
		addStrength(CategoryCoding, "Strong technical capabilities demonstrated")
		addStrength(CategorySystemDesign, "Well-designed system architecture solutions")
	case report.TechnicalRating <= 0.5:
		addImprovement(CategoryCoding, "Technical skills need significant improvement")
		addImprovement(CategorySystemDesign, "System architecture understanding needs development")
	}

	switch {
	case report.PassionRating >= 0.8:
		addStrength(CategoryBehavioral,
			"Shows strong enthusiasm and genuine interest in the role",
			"Demonstrates excellent cultural fit indicators")
	case report.PassionRating <= 0.5:
		addImprovement(CategoryBehavioral,
			"Could demonstrate more passion for the role",
			"Consider highlighting motivations and interest in future interviews")
	}
}
