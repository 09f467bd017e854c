package assessment

import "fmt"

// Level is the candidate seniority tier used for plan and threshold
// selection.
type Level string

const (
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// DefaultPassThreshold applies when no per-level threshold is configured.
const DefaultPassThreshold = 60

// PassThreshold returns the passing score for a seniority tier. Unknown
// tiers fall back to DefaultPassThreshold.
func PassThreshold(level Level) float64 {
	switch level {
	case LevelJunior:
		return 65
	case LevelMid:
		return 70
	case LevelSenior:
		return 75
	default:
		return DefaultPassThreshold
	}
}

// Template describes one question slot in an assessment plan. A single
// parameterized record covers every category and difficulty instead of
// per-tier duplicated structures.
type Template struct {
	Category     Category `json:"category"`
	Difficulty   string   `json:"difficulty"`
	PromptFields []string `json:"prompt_fields"`
}

// Plan is the expected question composition for a seniority tier, plus its
// pass threshold.
type Plan struct {
	Level         Level      `json:"level"`
	Templates     []Template `json:"templates"`
	PassThreshold float64    `json:"pass_threshold"`
}

var promptFields = map[Category][]string{
	CategoryCoding:       {"title", "description", "constraints", "examples"},
	CategorySystemDesign: {"scenario", "requirements", "expected_components"},
	CategoryBehavioral:   {"question", "context"},
}

var difficultyMix = map[Level][]string{
	LevelJunior: {"easy", "easy", "medium", "medium", "medium"},
	LevelMid:    {"easy", "medium", "medium", "medium", "hard"},
	LevelSenior: {"medium", "medium", "hard", "hard", "hard"},
}

// PlanFor builds the question plan for a tier: five slots per category with
// a tier-appropriate difficulty mix. Unknown tiers get the mid mix with the
// default threshold.
func PlanFor(level Level) Plan {
	mix, ok := difficultyMix[level]
	if !ok {
		mix = difficultyMix[LevelMid]
	}

	plan := Plan{Level: level, PassThreshold: PassThreshold(level)}
	for _, c := range Categories() {
		for _, d := range mix {
			plan.Templates = append(plan.Templates, Template{
				Category:     c,
				Difficulty:   d,
				PromptFields: promptFields[c],
			})
		}
	}
	return plan
}

// Check compares an answer sheet's question composition against the plan
// and describes every deviation. Deviations are data-quality notes, not
// errors; a short sheet still gets scored.
func (p Plan) Check(questions []Question) []string {
	expected := make(map[Category]int, 3)
	for _, t := range p.Templates {
		expected[t.Category]++
	}

	actual := make(map[Category]int, 3)
	for _, q := range questions {
		actual[q.Category]++
	}

	var notes []string
	for _, c := range Categories() {
		if actual[c] != expected[c] {
			notes = append(notes, fmt.Sprintf("%s question count %d differs from the %s plan (%d)",
				c, actual[c], p.Level, expected[c]))
		}
	}
	return notes
}
