package assessment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func renderedReport(t *testing.T) string {
	t.Helper()

	sheet := &Sheet{
		AssessmentID:  "oa-42",
		CandidateName: "Dana Fox",
		Questions: []Question{
			{ID: "code_1", Category: CategoryCoding, Score: scoreOf(85), Feedback: "Clean solution"},
			{ID: "code_2", Category: CategoryCoding, Score: scoreOf(75), Feedback: "Missed an edge case"},
			{ID: "design_1", Category: CategorySystemDesign, Score: scoreOf(7.4), Feedback: "No scaling story"},
			{ID: "behavior_1", Category: CategoryBehavioral, Feedback: "No answer provided."},
		},
	}

	report, err := NewScorer(0, zap.NewNop()).Score(sheet)
	require.NoError(t, err)

	generated := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	return report.Render(generated, "4f7a1c0e")
}

func TestRenderHeaderAndOverall(t *testing.T) {
	text := renderedReport(t)

	assert.True(t, strings.HasPrefix(text, "Assessment Summary for Dana Fox\n"+strings.Repeat("=", 28)+"\n"))
	assert.Contains(t, text, "Generated on: 2025-03-14 09:30:00")
	assert.Contains(t, text, "Assessment ID: oa-42")
	assert.Contains(t, text, "Run ID: 4f7a1c0e")
	assert.Contains(t, text, "OVERALL RESULTS\n"+strings.Repeat("=", 14)+"\n")
	assert.Contains(t, text, "Total Score: 29.13/100")
	assert.Contains(t, text, "Status: FAIL")
	assert.Contains(t, text, "Technical Rating: 0.44/1.0")
	assert.Contains(t, text, "Passion Rating: 0.00/1.0")
}

func TestRenderCategoryTable(t *testing.T) {
	text := renderedReport(t)

	assert.Contains(t, text, "Coding Questions:     80.0/100")
	assert.Contains(t, text, "System Design:        7.4/100")
	assert.Contains(t, text, "Behavioral Questions: 0.0/100")
	assert.Contains(t, text, "Strongest Area: Coding")
	assert.Contains(t, text, "Needs Improvement: Behavioral")
}

func TestRenderDetailedFeedback(t *testing.T) {
	text := renderedReport(t)

	assert.Contains(t, text, "CODING QUESTIONS\n"+strings.Repeat("-", 15)+"\n")
	assert.Contains(t, text, "Average Score: 80.0/100")
	assert.Contains(t, text, "Question ID: code_1\nScore: 85/100\nFeedback: Clean solution")
	assert.Contains(t, text, "Question ID: design_1\nScore: 7.4/100\nFeedback: No scaling story")
	assert.Contains(t, text, "Question ID: behavior_1\nScore: 0/100\nFeedback: No answer provided.")
	assert.Contains(t, text, "Coding Strengths:\n- Strong performance in code_1")
	assert.Contains(t, text, "System Design Areas for Improvement:\n- Needs improvement in design_1")
	assert.Contains(t, text, "Behavioral Strengths:\n- None identified")
}

func TestRenderSummaryAndFooter(t *testing.T) {
	text := renderedReport(t)

	assert.Contains(t, text, "SUMMARY & RECOMMENDATIONS\n"+strings.Repeat("=", 25)+"\n")
	assert.Contains(t, text, "Key Strengths:\n- Coding")
	assert.Contains(t, text, "Areas for Improvement:\n- Behavioral")
	assert.Contains(t, text, "- Consider additional preparation before proceeding")
	assert.Contains(t, text, "- Focus on strengthening skills in behavioral questions")
	assert.Contains(t, text, "- Continue to leverage strong performance in coding questions")
	assert.Contains(t, text, "- Focus on practical implementation")
	assert.Contains(t, text, "- Show more enthusiasm in responses")
	assert.True(t, strings.HasSuffix(text, strings.Repeat("=", 50)+"\n"+
		"This report was automatically generated based on the assessment responses.\n"+
		"Results should be considered alongside other evaluation methods.\n"+
		"Assessment conducted via AI-powered Online Assessment Module\n"+
		strings.Repeat("=", 50)))
}

func TestRenderSectionOrder(t *testing.T) {
	text := renderedReport(t)

	labels := []string{
		"OVERALL RESULTS",
		"PERFORMANCE BY CATEGORY",
		"DETAILED FEEDBACK BY CATEGORY",
		"CODING QUESTIONS",
		"SYSTEM DESIGN QUESTIONS",
		"BEHAVIORAL QUESTIONS",
		"SUMMARY & RECOMMENDATIONS",
	}
	prev := -1
	for _, label := range labels {
		idx := strings.Index(text, label)
		require.NotEqual(t, -1, idx, "missing section %q", label)
		assert.Greater(t, idx, prev, "section %q out of order", label)
		prev = idx
	}
}

func TestRenderDeterministic(t *testing.T) {
	assert.Equal(t, renderedReport(t), renderedReport(t))
}

func TestRenderOmitsAbsentSections(t *testing.T) {
	sheet := &Sheet{Questions: []Question{
		{ID: "code_1", Category: CategoryCoding, Score: scoreOf(90), Feedback: "Good"},
	}}
	report, err := NewScorer(0, zap.NewNop()).Score(sheet)
	require.NoError(t, err)

	text := report.Render(time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC), "")

	assert.Contains(t, text, "Assessment Summary for Candidate")
	assert.NotContains(t, text, "Run ID:")
	assert.NotContains(t, text, "Assessment ID:")
	assert.Contains(t, text, "System Design:        0.0/100")
	assert.NotContains(t, text, "SYSTEM DESIGN QUESTIONS")
	assert.NotContains(t, text, "BEHAVIORAL QUESTIONS")
	assert.Contains(t, text, "No significant weak areas identified")
	assert.Contains(t, text, "Key Strengths:\n- Coding")
}
