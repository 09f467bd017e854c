package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/match"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func scoringFlags(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().StringP("weights", "w", "", "")
	cmd.Flags().StringP("level", "l", "", "")
	return cmd
}

func TestPrintDecisionSummary(t *testing.T) {
	d := decision.DefaultDecision()
	d.Details.Status = decision.StatusProceed
	d.Details.ConfidenceScore = 85
	d.Details.InterviewStage = decision.StageFullLoop
	d.Rationale.KeyStrengths = []string{"Strong Go background"}
	d.Rationale.Concerns = []string{"No production Kubernetes exposure"}
	d.NextSteps.ImmediateActions = []string{"Schedule full interview loop"}

	var buf bytes.Buffer
	printDecisionSummary(&buf, d)

	out := buf.String()
	for _, want := range []string{
		"Hiring Decision Summary:",
		"Status: PROCEED",
		"Confidence Score: 85%",
		"Recommended Interview Stage: FULL_LOOP",
		"- Strong Go background",
		"- No production Kubernetes exposure",
		"- Schedule full interview loop",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDecisionSummaryNilDecision(t *testing.T) {
	var buf bytes.Buffer
	printDecisionSummary(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestLoadWeightsFile(t *testing.T) {
	dir := t.TempDir()

	flat := filepath.Join(dir, "flat.yaml")
	if err := os.WriteFile(flat, []byte("skills: 0.5\nexperience: 0.3\neducation: 0.1\nadditional: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := loadWeightsFile(flat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w[match.CategorySkills] != 0.5 {
		t.Fatalf("unexpected skills weight: %v", w[match.CategorySkills])
	}

	nested := filepath.Join(dir, "nested.json")
	if err := os.WriteFile(nested, []byte(`{"weights": {"skills": 0.25, "experience": 0.25, "education": 0.25, "additional": 0.25}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err = loadWeightsFile(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w[match.CategoryAdditional] != 0.25 {
		t.Fatalf("unexpected additional weight: %v", w[match.CategoryAdditional])
	}
}

func TestLoadWeightsFileRejectsBadSum(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("skills: 0.9\nexperience: 0.3\neducation: 0.1\nadditional: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadWeightsFile(bad); err == nil {
		t.Fatal("expected an error for weights not summing to 1")
	}
}

func TestPipelineConfigFlagWins(t *testing.T) {
	cmd := scoringFlags(t)
	if err := cmd.Flags().Set("level", "Senior"); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipelineConfig(cmd, &Config{Level: "junior", PassThreshold: 72})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Level != assessment.LevelSenior {
		t.Fatalf("expected the flag level to win, got %q", cfg.Level)
	}
	if cfg.PassThreshold != 72 {
		t.Fatalf("unexpected threshold: %v", cfg.PassThreshold)
	}
}

func TestPipelineConfigConfigWeights(t *testing.T) {
	cmd := scoringFlags(t)

	cfg, err := pipelineConfig(cmd, &Config{Weights: map[string]any{
		"skills": 0.4, "experience": 0.3, "education": 0.2, "additional": 0.1,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weights[match.CategoryExperience] != 0.3 {
		t.Fatalf("unexpected experience weight: %v", cfg.Weights[match.CategoryExperience])
	}
}

func TestPipelineConfigRejectsBadWeights(t *testing.T) {
	cmd := scoringFlags(t)

	if _, err := pipelineConfig(cmd, &Config{Weights: map[string]any{"skills": 1.5}}); err == nil {
		t.Fatal("expected an error for invalid config weights")
	}
}

func TestNewProvidersDisabled(t *testing.T) {
	for _, config := range []*Config{
		nil,
		{},
		{AI: &AIConfig{Enabled: false, Gemini: &GeminiConfig{APIKey: "key"}}},
	} {
		prov, err := newProviders(context.Background(), config, zap.NewNop())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prov != nil {
			t.Fatal("expected no providers without an enabled ai section")
		}
	}
}

func TestNewProvidersUnsupportedProvider(t *testing.T) {
	config := &Config{AI: &AIConfig{Enabled: true, Provider: "openai"}}

	_, err := newProviders(context.Background(), config, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Fatalf("expected an unsupported provider error, got %v", err)
	}
}
