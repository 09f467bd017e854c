package match

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// WeightTolerance is how far a weight sum may drift from 1.0 before it is
// rejected as misconfigured.
const WeightTolerance = 1e-6

// Weights maps each match category to its share of the overall score.
type Weights map[Category]float64

// DefaultWeights returns the standard category weighting.
func DefaultWeights() Weights {
	return Weights{
		CategorySkills:     0.40,
		CategoryExperience: 0.30,
		CategoryEducation:  0.20,
		CategoryAdditional: 0.10,
	}
}

// Validate checks that every category carries a non-negative weight and that
// the weights sum to 1.0 within WeightTolerance. A non-nil result is a
// configuration error and should abort startup, not a single candidate.
func (w Weights) Validate() error {
	sum := 0.0
	for _, c := range Categories() {
		weight, ok := w[c]
		if !ok {
			return fmt.Errorf("weights: missing category %q", c)
		}
		if weight < 0 {
			return fmt.Errorf("weights: category %q has negative weight %v", c, weight)
		}
		sum += weight
	}

	for c := range w {
		if !c.known() {
			return fmt.Errorf("weights: unknown category %q", c)
		}
	}

	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("weights: sum is %v, want 1.0", sum)
	}

	return nil
}

// WeightsFromMap builds and validates Weights from a loosely typed map, the
// shape a viper-loaded override file produces. String values like "0.4" are
// accepted.
func WeightsFromMap(raw map[string]any) (Weights, error) {
	var decoded map[string]float64
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decoded,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	w := make(Weights, len(decoded))
	for k, v := range decoded {
		w[Category(k)] = v
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
