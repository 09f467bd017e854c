package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassThreshold(t *testing.T) {
	assert.Equal(t, 65.0, PassThreshold(LevelJunior))
	assert.Equal(t, 70.0, PassThreshold(LevelMid))
	assert.Equal(t, 75.0, PassThreshold(LevelSenior))
	assert.Equal(t, float64(DefaultPassThreshold), PassThreshold(Level("staff")))
	assert.Equal(t, float64(DefaultPassThreshold), PassThreshold(Level("")))
}

func TestPlanFor(t *testing.T) {
	plan := PlanFor(LevelSenior)
	require.Len(t, plan.Templates, 15)
	assert.Equal(t, 75.0, plan.PassThreshold)

	perCategory := make(map[Category]int)
	hard := 0
	for _, tmpl := range plan.Templates {
		perCategory[tmpl.Category]++
		if tmpl.Difficulty == "hard" {
			hard++
		}
		assert.NotEmpty(t, tmpl.PromptFields)
	}
	assert.Equal(t, 5, perCategory[CategoryCoding])
	assert.Equal(t, 5, perCategory[CategorySystemDesign])
	assert.Equal(t, 5, perCategory[CategoryBehavioral])
	assert.Equal(t, 9, hard)

	junior := PlanFor(LevelJunior)
	for _, tmpl := range junior.Templates {
		assert.NotEqual(t, "hard", tmpl.Difficulty)
	}
}

func TestPlanCheck(t *testing.T) {
	plan := PlanFor(LevelMid)

	full := make([]Question, 0, 15)
	for _, tmpl := range plan.Templates {
		full = append(full, Question{Category: tmpl.Category})
	}
	assert.Empty(t, plan.Check(full))

	short := []Question{
		{Category: CategoryCoding},
		{Category: CategoryCoding},
	}
	notes := plan.Check(short)
	require.Len(t, notes, 3)
	assert.Contains(t, notes[0], "coding question count 2")
	assert.Contains(t, notes[1], "system_design question count 0")
}
