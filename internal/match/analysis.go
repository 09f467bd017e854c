// Package match combines per-category scores for a candidate/job pair into
// a single weighted match analysis.
package match

// Category identifies one evaluation dimension of the candidate/job match.
type Category string

const (
	CategorySkills     Category = "skills"
	CategoryExperience Category = "experience"
	CategoryEducation  Category = "education"
	CategoryAdditional Category = "additional"
)

// Categories returns the match categories in canonical order. Iteration and
// serialization follow this order so identical inputs produce identical
// artifacts.
func Categories() []Category {
	return []Category{CategorySkills, CategoryExperience, CategoryEducation, CategoryAdditional}
}

func (c Category) known() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// NotAssessedGap marks a category the upstream scorer never produced, as
// opposed to one assessed with a low score. The classifier keys off it.
const NotAssessedGap = "category not assessed"

// CategoryScore is one dimension's result: a 0-100 score plus the matched
// and missing items behind it.
type CategoryScore struct {
	Score   float64  `json:"score"`
	Matches []string `json:"matches"`
	Gaps    []string `json:"gaps"`
}

// NotAssessed reports whether the score stands in for an unassessed
// category rather than a real evaluation.
func (s CategoryScore) NotAssessed() bool {
	for _, g := range s.Gaps {
		if g == NotAssessedGap {
			return true
		}
	}
	return false
}

// Analysis is the aggregated result of matching one candidate against one
// requirement. MatchScore is always recomputed from the category scores,
// never taken from upstream.
type Analysis struct {
	MatchScore            int                        `json:"match_score"`
	Categories            map[Category]CategoryScore `json:"analysis"`
	Recommendation        string                     `json:"recommendation"`
	KeyStrengths          []string                   `json:"key_strengths"`
	AreasForConsideration []string                   `json:"areas_for_consideration"`
	DataQualityNotes      []string                   `json:"data_quality_notes,omitempty"`
}
