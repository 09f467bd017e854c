package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.Equal(t, 0.40, w[CategorySkills])
	assert.Equal(t, 0.30, w[CategoryExperience])
	assert.Equal(t, 0.20, w[CategoryEducation])
	assert.Equal(t, 0.10, w[CategoryAdditional])
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr string
	}{
		{
			name: "valid non-default split",
			weights: Weights{
				CategorySkills: 0.5, CategoryExperience: 0.3,
				CategoryEducation: 0.1, CategoryAdditional: 0.1,
			},
		},
		{
			name: "tolerates float drift",
			weights: Weights{
				CategorySkills: 0.1 + 0.2, CategoryExperience: 0.3,
				CategoryEducation: 0.2, CategoryAdditional: 0.2,
			},
		},
		{
			name: "missing category",
			weights: Weights{
				CategorySkills: 0.5, CategoryExperience: 0.3, CategoryEducation: 0.2,
			},
			wantErr: "missing category",
		},
		{
			name: "negative weight",
			weights: Weights{
				CategorySkills: 0.6, CategoryExperience: 0.3,
				CategoryEducation: 0.2, CategoryAdditional: -0.1,
			},
			wantErr: "negative weight",
		},
		{
			name: "unknown category",
			weights: Weights{
				CategorySkills: 0.4, CategoryExperience: 0.3,
				CategoryEducation: 0.2, CategoryAdditional: 0.05,
				Category("charisma"): 0.05,
			},
			wantErr: "unknown category",
		},
		{
			name: "sum off",
			weights: Weights{
				CategorySkills: 0.4, CategoryExperience: 0.3,
				CategoryEducation: 0.2, CategoryAdditional: 0.2,
			},
			wantErr: "sum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWeightsFromMap(t *testing.T) {
	w, err := WeightsFromMap(map[string]any{
		"skills":     "0.4",
		"experience": 0.3,
		"education":  0.2,
		"additional": 0.1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.4, w[CategorySkills])
	assert.Equal(t, 0.3, w[CategoryExperience])

	_, err = WeightsFromMap(map[string]any{
		"skills": 0.9, "experience": 0.3, "education": 0.2, "additional": 0.1,
	})
	require.Error(t, err)

	_, err = WeightsFromMap(map[string]any{
		"skills": 0.4, "experience": 0.3, "education": 0.2, "charisma": 0.1,
	})
	require.Error(t, err)
}
