package assessment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func bullets(items []string) []string {
	if len(items) == 0 {
		return []string{"- None identified"}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return out
}

// Render produces the plain-text summary report. Section labels, ordering,
// and underline widths are a compatibility contract for downstream
// text-scrapers and must not change.
func (r *Report) Render(generatedAt time.Time, runID string) string {
	name := r.CandidateName
	if name == "" {
		name = "Candidate"
	}

	avg := func(c Category) float64 {
		v, _ := r.Average(c)
		return v
	}
	strongestAvg, _ := r.Average(r.StrongestCategory)
	weakestAvg, _ := r.Average(r.WeakestCategory)

	lines := []string{
		fmt.Sprintf("Assessment Summary for %s", name),
		strings.Repeat("=", 20+len(name)),
		fmt.Sprintf("Generated on: %s", generatedAt.Format("2006-01-02 15:04:05")),
	}
	if r.AssessmentID != "" {
		lines = append(lines, fmt.Sprintf("Assessment ID: %s", r.AssessmentID))
	}
	if runID != "" {
		lines = append(lines, fmt.Sprintf("Run ID: %s", runID))
	}

	lines = append(lines,
		"",
		"OVERALL RESULTS",
		strings.Repeat("=", 14),
		fmt.Sprintf("Total Score: %s/100", fmtScore(r.OverallScore)),
		fmt.Sprintf("Status: %s", r.Status),
		fmt.Sprintf("Technical Rating: %.2f/1.0", r.TechnicalRating),
		fmt.Sprintf("Passion Rating: %.2f/1.0", r.PassionRating),
		"",
		"PERFORMANCE BY CATEGORY",
		strings.Repeat("=", 23),
		fmt.Sprintf("Coding Questions:     %.1f/100", avg(CategoryCoding)),
		fmt.Sprintf("System Design:        %.1f/100", avg(CategorySystemDesign)),
		fmt.Sprintf("Behavioral Questions: %.1f/100", avg(CategoryBehavioral)),
		"",
		fmt.Sprintf("Strongest Area: %s", r.StrongestCategory.Display()),
	)
	if weakestAvg < 70 {
		lines = append(lines, fmt.Sprintf("Needs Improvement: %s", r.WeakestCategory.Display()))
	} else {
		lines = append(lines, "No significant weak areas identified")
	}

	lines = append(lines,
		"",
		"DETAILED FEEDBACK BY CATEGORY",
		strings.Repeat("=", 29),
	)

	sections := []struct {
		category Category
		header   string
		rule     int
		label    string
	}{
		{CategoryCoding, "CODING QUESTIONS", 15, "Coding"},
		{CategorySystemDesign, "SYSTEM DESIGN QUESTIONS", 22, "System Design"},
		{CategoryBehavioral, "BEHAVIORAL QUESTIONS", 20, "Behavioral"},
	}
	for _, section := range sections {
		result, ok := r.Categories[section.category]
		if !ok {
			continue
		}
		lines = append(lines,
			"",
			section.header,
			strings.Repeat("-", section.rule),
			fmt.Sprintf("Average Score: %.1f/100", result.Average),
		)
		for _, q := range result.Questions {
			lines = append(lines,
				"",
				fmt.Sprintf("Question ID: %s", q.ID),
				fmt.Sprintf("Score: %s/100", fmtScore(q.Score)),
				fmt.Sprintf("Feedback: %s", q.Feedback),
			)
		}
		lines = append(lines, "", section.label+" Strengths:")
		lines = append(lines, bullets(result.Strengths)...)
		lines = append(lines, "", section.label+" Areas for Improvement:")
		lines = append(lines, bullets(result.Improvements)...)
	}

	keyStrength := "No outstanding strengths identified"
	if strongestAvg >= 70 {
		keyStrength = r.StrongestCategory.Display()
	}
	keyWeakness := "No critical weaknesses identified"
	if weakestAvg < 70 {
		keyWeakness = r.WeakestCategory.Display()
	}

	lines = append(lines,
		"",
		"SUMMARY & RECOMMENDATIONS",
		strings.Repeat("=", 25),
		"Key Strengths:",
		"- "+keyStrength,
		"- "+pick(r.TechnicalRating >= 0.7, "Technical knowledge is solid", "Basic technical understanding demonstrated"),
		"- "+pick(r.PassionRating >= 0.7, "Shows genuine passion for the role", "Professional attitude demonstrated"),
		"",
		"Areas for Improvement:",
		"- "+keyWeakness,
		"- "+pick(r.TechnicalRating < 0.7, "Technical skills could be stronger", "Continue technical development"),
		"- "+pick(r.PassionRating < 0.7, "Could show more enthusiasm", "Maintain positive attitude"),
		"",
		"Recommendations:",
		"- "+pick(r.Status == StatusPass, "Proceed with next interview stage", "Consider additional preparation before proceeding"),
		fmt.Sprintf("- Focus on strengthening skills in %s questions", strings.ToLower(r.WeakestCategory.Display())),
		"- "+pick(strongestAvg >= 70,
			fmt.Sprintf("Continue to leverage strong performance in %s questions", strings.ToLower(r.StrongestCategory.Display())),
			"Work on improving all areas with focused study"),
		"- "+pick(r.TechnicalRating < 0.7, "Focus on practical implementation", "Continue building on strong technical foundation"),
		"- "+pick(r.PassionRating < 0.7, "Show more enthusiasm in responses", "Maintain strong engagement level"),
		"",
		strings.Repeat("=", 50),
		"This report was automatically generated based on the assessment responses.",
		"Results should be considered alongside other evaluation methods.",
		"Assessment conducted via AI-powered Online Assessment Module",
		strings.Repeat("=", 50),
	)

	return strings.Join(lines, "\n")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
