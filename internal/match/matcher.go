package match

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/util"
)

// Matcher turns a score sheet into a weighted match analysis. It is a pure
// combiner: the semantic comparison happened upstream, the Matcher only
// aggregates.
type Matcher struct {
	weights Weights
	logger  *zap.Logger
}

// NewMatcher builds a Matcher. Nil weights select DefaultWeights; invalid
// weights are a configuration error.
func NewMatcher(weights Weights, logger *zap.Logger) (*Matcher, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{weights: weights, logger: logger}, nil
}

// Compute aggregates the sheet's category scores into a match analysis for
// the given requirement. A category missing from the sheet scores 0 but is
// annotated as unassessed so downstream classification can tell it apart
// from an assessed poor match.
func (m *Matcher) Compute(req *candidate.Requirement, sheet *Sheet) *Analysis {
	analysis := &Analysis{
		Categories:            make(map[Category]CategoryScore, len(m.weights)),
		Recommendation:        sheet.Recommendation,
		KeyStrengths:          sheet.KeyStrengths,
		AreasForConsideration: sheet.AreasForConsideration,
	}
	analysis.DataQualityNotes = append(analysis.DataQualityNotes, sheet.Notes...)

	if analysis.Recommendation == "" {
		analysis.Recommendation = "Not provided"
	}
	if analysis.KeyStrengths == nil {
		analysis.KeyStrengths = []string{}
	}
	if analysis.AreasForConsideration == nil {
		analysis.AreasForConsideration = []string{}
	}

	total := 0.0
	for _, c := range Categories() {
		score, ok := sheet.Categories[c]
		if !ok {
			score = CategoryScore{
				Matches: []string{},
				Gaps:    []string{NotAssessedGap},
			}
			analysis.DataQualityNotes = append(analysis.DataQualityNotes,
				fmt.Sprintf("%s category missing from score sheet", c))
		}
		score.Score = util.Clamp(score.Score, 0, 100)
		analysis.Categories[c] = score
		total += m.weights[c] * score.Score
	}
	analysis.MatchScore = int(math.Round(total))

	title := ""
	if req != nil {
		title = req.Title
	}
	m.logger.Debug("computed match analysis",
		zap.String("job", title),
		zap.Int("match_score", analysis.MatchScore),
	)

	return analysis
}
