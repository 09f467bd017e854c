package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/match"
	"github.com/parthshr370/IntHR/internal/util"
)

// contentGenerator is the slice of Generator the scorers use; tests
// substitute a stub.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateContentWithCache(ctx context.Context, prompt, cacheName string) (string, error)
	Model() string
}

//go:embed match_prompt.md
var matchPromptTemplate string

const defaultMaxLogLength = 200

// Scorer scores a candidate profile against a job requirement by prompting
// the generator for a category score sheet.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	cacheName string
}

func NewScorer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Scorer{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// UseRequirementCache makes subsequent calls reference a cached requirement
// payload instead of resending it. Set once before a batch fan-out.
func (s *Scorer) UseRequirementCache(name string) {
	s.cacheName = strings.TrimSpace(name)
}

// ScoreMatch prompts the generator and parses its response into a raw score
// sheet.
func (s *Scorer) ScoreMatch(ctx context.Context, profile *candidate.Profile, req *candidate.Requirement) (*match.Sheet, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	if req == nil {
		return nil, fmt.Errorf("job requirement is required")
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}
	reqJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal requirement payload: %w", err)
	}

	reqPayload := string(reqJSON)
	if s.cacheName != "" {
		// The full requirement rides along as cached content.
		reqPayload = "Provided as cached content with this request."
	}

	prompt := buildMatchPrompt(string(profileJSON), reqPayload)

	s.logger.Debug("gemini match request",
		zap.String("job", req.Title),
		zap.String("candidate", profile.PersonalInfo.Name),
		zap.String("model", s.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	var raw string
	if s.cacheName != "" {
		raw, err = s.generator.GenerateContentWithCache(ctx, prompt, s.cacheName)
	} else {
		raw, err = s.generator.GenerateContent(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini match response",
		zap.String("job", req.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	sheet, err := match.ParseSheet([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse match sheet: %w", err)
	}
	return sheet, nil
}

func buildMatchPrompt(profileJSON, requirementJSON string) string {
	template := matchPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate profile:\n{{PROFILE_JSON}}\n\nJob requirement:\n{{REQUIREMENT_JSON}}\n\nJSON response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{REQUIREMENT_JSON}}", requirementJSON)
	return prompt
}
