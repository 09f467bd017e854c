// Package assessment aggregates per-question scores for a technical
// assessment into category averages, an overall score, a pass/fail status,
// and a fixed-section text report.
package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/parthshr370/IntHR/internal/util"
)

// Category identifies one assessment dimension.
type Category string

const (
	CategoryCoding       Category = "coding"
	CategorySystemDesign Category = "system_design"
	CategoryBehavioral   Category = "behavioral"
)

// Categories returns the assessment categories in priority order. Ties for
// strongest and weakest area resolve to the earliest entry.
func Categories() []Category {
	return []Category{CategoryCoding, CategorySystemDesign, CategoryBehavioral}
}

// Display returns the human-readable category label used in reports.
func (c Category) Display() string {
	switch c {
	case CategoryCoding:
		return "Coding"
	case CategorySystemDesign:
		return "System Design"
	case CategoryBehavioral:
		return "Behavioral"
	default:
		return string(c)
	}
}

func idPrefix(c Category) string {
	switch c {
	case CategoryCoding:
		return "code"
	case CategorySystemDesign:
		return "design"
	default:
		return "behavior"
	}
}

// Question is one answered (or unanswered) assessment question. A nil Score
// means no answer arrived; it counts as 0 in averages but is tracked
// separately so feedback can say so.
type Question struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Prompt        string   `json:"question,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Score         *float64 `json:"score"`
	Feedback      string   `json:"feedback"`
	PassionSignal *float64 `json:"passion_signal,omitempty"`
	Strengths     []string `json:"strengths,omitempty"`
	Improvements  []string `json:"improvement_areas,omitempty"`
}

// Sheet is a parsed assessment answer sheet. Notes records everything the
// parser had to repair or discard.
type Sheet struct {
	AssessmentID  string
	CandidateName string
	Level         Level
	Questions     []Question
	Notes         []string
}

// ParseSheet decodes an assessment answer sheet: either an object carrying a
// `questions` list plus header fields, or a bare question list. Questions
// with no usable category are discarded with a note rather than failing the
// whole sheet.
func ParseSheet(data []byte) (*Sheet, error) {
	text := util.ExtractJSON(string(data))

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("assessment sheet is not valid JSON: %w", err)
	}

	sheet := &Sheet{}
	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		sheet.AssessmentID = util.CoerceString(v["assessment_id"])
		if sheet.AssessmentID == "" {
			sheet.AssessmentID = util.CoerceString(v["id"])
		}
		sheet.CandidateName = util.CoerceString(v["candidate_name"])
		level := util.CoerceString(v["experience_level"])
		if level == "" {
			level = util.CoerceString(v["level"])
		}
		sheet.Level = Level(strings.ToLower(level))

		raw, ok := v["questions"].([]any)
		if !ok {
			raw, ok = v["answers"].([]any)
		}
		if !ok {
			return nil, errors.New("assessment sheet has no questions list")
		}
		items = raw
	default:
		return nil, errors.New("assessment sheet must be an object or a question list")
	}

	counts := make(map[Category]int, 3)
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			sheet.Notes = append(sheet.Notes, fmt.Sprintf("discarded question %d: not an object", i+1))
			continue
		}
		q, notes := parseQuestion(raw, counts)
		sheet.Notes = append(sheet.Notes, notes...)
		if q != nil {
			sheet.Questions = append(sheet.Questions, *q)
		}
	}

	return sheet, nil
}

func parseQuestion(raw map[string]any, counts map[Category]int) (*Question, []string) {
	var notes []string

	id := util.CoerceString(raw["id"])
	category, ok := questionCategory(raw, id)
	if !ok {
		label := id
		if label == "" {
			label = "unidentified question"
		}
		return nil, []string{fmt.Sprintf("discarded %s: no recognizable category", label)}
	}
	counts[category]++
	if id == "" {
		id = fmt.Sprintf("%s_%d", idPrefix(category), counts[category])
	}

	prompt := util.CoerceString(raw["question"])
	if prompt == "" {
		prompt = util.CoerceString(raw["prompt"])
	}
	if prompt == "" {
		prompt = util.CoerceString(raw["text"])
	}

	q := &Question{
		ID:           id,
		Category:     category,
		Difficulty:   strings.ToLower(util.CoerceString(raw["difficulty"])),
		Prompt:       prompt,
		Answer:       util.CoerceString(raw["answer"]),
		Feedback:     util.CoerceString(raw["feedback"]),
		Strengths:    util.CoerceStringSlice(raw["strengths"]),
		Improvements: util.CoerceStringSlice(raw["improvement_areas"]),
	}
	if len(q.Improvements) == 0 {
		q.Improvements = util.CoerceStringSlice(raw["improvements"])
	}

	if score := util.CoerceFloat(raw["score"]); !math.IsNaN(score) {
		if score < 0 || score > 100 {
			notes = append(notes, fmt.Sprintf("%s score %v clamped into [0,100]", id, score))
			score = util.Clamp(score, 0, 100)
		}
		q.Score = &score
	}

	if signal := util.CoerceFloat(raw["passion_signal"]); !math.IsNaN(signal) {
		signal = util.Clamp(signal, 0, 1)
		q.PassionSignal = &signal
	} else if indicators, present := raw["passion_indicators"]; present {
		// The behavioral evaluator sometimes emits a list of observed
		// indicators instead of a numeric signal.
		signal := math.Min(float64(len(util.CoerceStringSlice(indicators)))/5.0, 1.0)
		q.PassionSignal = &signal
	}

	if q.Score == nil && q.Feedback == "" {
		q.Feedback = "No answer provided."
	}

	return q, notes
}

func questionCategory(raw map[string]any, id string) (Category, bool) {
	explicit := util.CoerceString(raw["category"])
	if explicit == "" {
		explicit = util.CoerceString(raw["type"])
	}
	if c, ok := normalizeCategory(explicit); ok {
		return c, true
	}
	return inferCategory(id)
}

func normalizeCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coding", "code":
		return CategoryCoding, true
	case "system_design", "system design", "design":
		return CategorySystemDesign, true
	case "behavioral", "behavior", "behavioural":
		return CategoryBehavioral, true
	default:
		return "", false
	}
}

// inferCategory recovers the category from conventional question ids such
// as code_1, design_2, behavior_3.
func inferCategory(id string) (Category, bool) {
	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "code"):
		return CategoryCoding, true
	case strings.HasPrefix(lower, "design"), strings.HasPrefix(lower, "system"):
		return CategorySystemDesign, true
	case strings.HasPrefix(lower, "behavior"):
		return CategoryBehavioral, true
	default:
		return "", false
	}
}
