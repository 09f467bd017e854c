package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/util"
)

//go:embed answer_prompt.md
var answerPromptTemplate string

// Assessor scores the answers on an assessment sheet by prompting the
// generator once with the full question set.
type Assessor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssessor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Assessor{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// ScoreAnswers sends the questions and answers for scoring and parses the
// scored sheet that comes back. Identity fields and parse notes from the
// input sheet are preserved.
func (a *Assessor) ScoreAnswers(ctx context.Context, in *assessment.Sheet) (*assessment.Sheet, error) {
	if in == nil || len(in.Questions) == 0 {
		return nil, assessment.ErrNoQuestions
	}

	questionsJSON, err := json.MarshalIndent(in.Questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal questions payload: %w", err)
	}

	prompt := buildAnswerPrompt(string(questionsJSON), string(in.Level))

	a.logger.Debug("gemini assessment request",
		zap.String("assessment_id", in.AssessmentID),
		zap.Int("questions", len(in.Questions)),
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini assessment response",
		zap.String("assessment_id", in.AssessmentID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	scored, err := assessment.ParseSheet([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse scored sheet: %w", err)
	}

	if scored.AssessmentID == "" {
		scored.AssessmentID = in.AssessmentID
	}
	if scored.CandidateName == "" {
		scored.CandidateName = in.CandidateName
	}
	if scored.Level == "" {
		scored.Level = in.Level
	}
	scored.Notes = append(append([]string{}, in.Notes...), scored.Notes...)

	return scored, nil
}

func buildAnswerPrompt(questionsJSON, level string) string {
	if strings.TrimSpace(level) == "" {
		level = "unspecified"
	}
	template := answerPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Experience level: {{LEVEL}}\n\nQuestions and answers:\n{{QUESTIONS_JSON}}\n\nJSON response:"
	}
	prompt := strings.ReplaceAll(template, "{{QUESTIONS_JSON}}", questionsJSON)
	prompt = strings.ReplaceAll(prompt, "{{LEVEL}}", level)
	return prompt
}
