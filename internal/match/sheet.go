package match

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"

	"github.com/parthshr370/IntHR/internal/util"
)

// Sheet is a raw category score sheet from an upstream scorer after coercion
// but before weighting. Notes records everything the parser had to repair.
// ErrorSignal is set when the scorer itself flagged a processing error; the
// classifier treats it as evidence against a genuine mismatch.
type Sheet struct {
	Categories            map[Category]CategoryScore
	Recommendation        string
	KeyStrengths          []string
	AreasForConsideration []string
	Notes                 []string
	ErrorSignal           bool
}

// ParseSheet decodes an upstream score sheet. Two top-level conventions
// occur: `match_score` with category scores on the 0-100 scale, and
// `overall_match_score` with category scores on the 0-1 scale. Both are
// accepted; 0-1 scores are rescaled to 0-100. The payload may arrive inside
// markdown fences.
func ParseSheet(data []byte) (*Sheet, error) {
	text := util.ExtractJSON(string(data))

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("score sheet is not a JSON object: %w", err)
	}

	return sheetFromRaw(raw)
}

func sheetFromRaw(raw map[string]any) (*Sheet, error) {
	sheet := &Sheet{Categories: make(map[Category]CategoryScore, 4)}

	analysis, _ := raw["analysis"].(map[string]any)
	fractional, inferred := fractionalScale(raw, analysis)
	if inferred {
		sheet.Notes = append(sheet.Notes, "category scores interpreted on the 0-1 scale")
	}

	for _, c := range Categories() {
		block, ok := analysis[string(c)]
		if !ok {
			continue
		}

		var cs CategoryScore
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cs,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(block); err != nil {
			sheet.Notes = append(sheet.Notes, fmt.Sprintf("discarded malformed %s block: %v", c, err))
			continue
		}

		if fractional {
			cs.Score *= 100
		}
		if cs.Score < 0 || cs.Score > 100 {
			sheet.Notes = append(sheet.Notes, fmt.Sprintf("%s score %v clamped into [0,100]", c, cs.Score))
		}
		cs.Score = util.Clamp(cs.Score, 0, 100)
		if cs.Matches == nil {
			cs.Matches = []string{}
		}
		if cs.Gaps == nil {
			cs.Gaps = []string{}
		}
		sheet.Categories[c] = cs
	}

	sheet.Recommendation = util.CoerceString(raw["recommendation"])
	sheet.KeyStrengths = util.CoerceStringSlice(raw["key_strengths"])
	sheet.AreasForConsideration = util.CoerceStringSlice(raw["areas_for_consideration"])

	if v, ok := raw["error"]; ok {
		if msg := util.CoerceString(v); msg != "" && msg != "false" {
			sheet.ErrorSignal = true
			sheet.Notes = append(sheet.Notes, fmt.Sprintf("scorer reported an error: %s", msg))
		}
	}

	return sheet, nil
}

// fractionalScale decides which score convention the sheet uses. The second
// return reports that the decision came from inspecting category scores
// rather than an explicit top-level key.
func fractionalScale(raw, analysis map[string]any) (fractional, inferred bool) {
	if _, ok := raw["match_score"]; ok {
		return false, false
	}
	if _, ok := raw["overall_match_score"]; ok {
		return true, false
	}

	sawAny := false
	sawInterior := false
	for _, c := range Categories() {
		block, ok := analysis[string(c)].(map[string]any)
		if !ok {
			continue
		}
		score := util.CoerceFloat(block["score"])
		if math.IsNaN(score) {
			continue
		}
		sawAny = true
		if score > 1.0 || score < 0 {
			return false, false
		}
		if score > 0 && score < 1.0 {
			sawInterior = true
		}
	}

	// All-zero and all-exactly-1.0 sheets are ambiguous; reading them as
	// 0-100 is the conservative choice.
	if sawAny && sawInterior {
		return true, true
	}
	return false, false
}
