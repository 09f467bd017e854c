package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parthshr370/IntHR/internal/ai"
	"github.com/parthshr370/IntHR/internal/ai/gemini"
	"github.com/parthshr370/IntHR/internal/artifacts"
	"github.com/parthshr370/IntHR/internal/assessment"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/logger"
	"github.com/parthshr370/IntHR/internal/match"
	"github.com/parthshr370/IntHR/internal/pipeline"
	"github.com/parthshr370/IntHR/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// exitDegraded signals that a decision was produced but one or more stages
// ran below ok. Fatal errors exit 1 as usual.
const exitDegraded = 2

var runCmd = &cobra.Command{
	Use:   "run <profile.json>",
	Short: "Score one candidate profile against a job requirement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("job", "", "path to the job requirement file")
	runCmd.Flags().StringP("match", "m", "", "path to a pre-computed category score sheet. Skips the scoring provider.")
	runCmd.Flags().StringP("assessment", "a", "", "path to a technical assessment answer sheet")
	runCmd.Flags().StringP("weights", "w", "", "path to a category weights override file")
	runCmd.Flags().StringP("output", "o", "", "path prefix for written artifacts. Default is no artifacts.")
	runCmd.Flags().StringP("level", "l", "", "candidate seniority level: junior, mid, or senior")

	runCmd.MarkFlagRequired("job")
}

// run is the single-candidate command.
func run(cmd *cobra.Command, profilePath string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting inthr", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	pcfg, err := pipelineConfig(cmd, config)
	if err != nil {
		logger.Fatal("building the pipeline configuration", zap.Error(err))
	}

	prov, err := newProviders(ctx, config, logger)
	if err != nil {
		logger.Warn("continuing without a scoring provider", zap.Error(err))
	}
	if prov != nil {
		pcfg.CategoryScorer = prov.scorer
		pcfg.AnswerScorer = prov.assessor
	}

	p, err := pipeline.New(pcfg, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	req := pipeline.Request{}
	req.ProfileJSON = mustReadFile(profilePath, "profile", logger)
	req.RequirementJSON = mustReadFile(flagString(cmd, "job"), "job requirement", logger)
	if path := flagString(cmd, "match"); path != "" {
		req.MatchSheetJSON = mustReadFile(path, "match sheet", logger)
	}
	if path := flagString(cmd, "assessment"); path != "" {
		req.AssessmentJSON = mustReadFile(path, "assessment", logger)
	}

	result := p.Run(ctx, req)

	if result.Err != nil && candidate.IsParseError(result.Err) {
		logger.Error("cannot process candidate documents", zap.Error(result.Err))
		os.Exit(1)
	}

	if prefix := flagString(cmd, "output"); prefix != "" && result.Decision != nil {
		writer := artifacts.NewWriter(prefix, logger)
		paths, err := writer.WriteResult(result, time.Now())
		if err != nil {
			logger.Fatal("writing artifacts", zap.Error(err))
		}
		logger.Info("wrote artifacts", zap.Strings("paths", paths))
	}

	printDecisionSummary(os.Stdout, result.Decision)

	if result.Degraded() {
		os.Exit(exitDegraded)
	}
}

// pipelineConfig merges the config file and command flags. Flags win, but
// only when actually set.
func pipelineConfig(cmd *cobra.Command, config *Config) (pipeline.Config, error) {
	cfg := pipeline.Config{}

	if config != nil {
		cfg.Level = assessment.Level(config.Level)
		cfg.PassThreshold = config.PassThreshold
		if len(config.Weights) > 0 {
			w, err := match.WeightsFromMap(config.Weights)
			if err != nil {
				return cfg, err
			}
			cfg.Weights = w
		}
	}

	if cmd.Flags().Changed("level") {
		cfg.Level = assessment.Level(strings.ToLower(flagString(cmd, "level")))
	}

	if cmd.Flags().Changed("weights") {
		w, err := loadWeightsFile(flagString(cmd, "weights"))
		if err != nil {
			return cfg, err
		}
		cfg.Weights = w
	}

	return cfg, nil
}

// loadWeightsFile reads a weights override file. Both a flat
// skills/experience/education/additional map and one nested under a
// "weights" key are accepted.
func loadWeightsFile(path string) (match.Weights, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}

	raw := v.AllSettings()
	if sub, ok := raw["weights"].(map[string]any); ok && len(raw) == 1 {
		raw = sub
	}

	return match.WeightsFromMap(raw)
}

// providers bundles the scoring providers with the generator backing them.
// The batch command needs the generator itself for requirement caching.
type providers struct {
	scorer    *gemini.Scorer
	assessor  *gemini.Assessor
	generator *gemini.Generator
}

// warmRequirementCache uploads the shared requirement payload once so every
// scoring call in a batch references it instead of resending it. A cache
// failure is not fatal; scoring falls back to inline payloads.
func (p *providers) warmRequirementCache(ctx context.Context, reqID string, reqJSON []byte, logger *zap.Logger) {
	name, err := p.generator.EnsureRequirementCache(ctx, reqID, "", string(reqJSON))
	if err != nil {
		logger.Warn("requirement cache unavailable, sending the requirement with every call", zap.Error(err))
		return
	}
	p.scorer.UseRequirementCache(name)
}

// newProviders builds the Gemini scoring providers when the ai section is
// enabled. A disabled or absent section is not an error; the pipeline then
// works only from pre-computed sheets.
func newProviders(ctx context.Context, config *Config, log *zap.Logger) (*providers, error) {
	if config == nil || config.AI == nil || !config.AI.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	gcfg := config.AI.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  gcfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key, ai.gemini.api-key-file, or GEMINI_API_KEY)", err)
	}

	retry := ai.DefaultPolicy()
	if gcfg.MaxRetries > 0 {
		retry.MaxAttempts = gcfg.MaxRetries
	}

	genLogger := logger.WithProvider(log, "gemini", gcfg.Model).
		With(zap.Int("ai_retry_attempts", retry.MaxAttempts))

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:  apiKey,
		Model:   gcfg.Model,
		Timeout: time.Duration(gcfg.TimeoutSeconds) * time.Second,
		Retry:   retry,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return &providers{
		scorer:    gemini.NewScorer(generator, genLogger, gcfg.MaxLogLength),
		assessor:  gemini.NewAssessor(generator, genLogger, gcfg.MaxLogLength),
		generator: generator,
	}, nil
}

// printDecisionSummary writes the short console summary. The line format
// follows the original console contract.
func printDecisionSummary(w io.Writer, d *decision.Decision) {
	if d == nil {
		return
	}

	fmt.Fprintln(w, "\nHiring Decision Summary:")
	fmt.Fprintf(w, "Status: %s\n", d.Details.Status)
	fmt.Fprintf(w, "Confidence Score: %s%%\n", strconv.FormatFloat(d.Details.ConfidenceScore, 'f', -1, 64))
	fmt.Fprintf(w, "Recommended Interview Stage: %s\n", d.Details.InterviewStage)

	fmt.Fprintln(w, "\nKey Strengths:")
	for _, item := range d.Rationale.KeyStrengths {
		fmt.Fprintf(w, "- %s\n", item)
	}

	fmt.Fprintln(w, "\nAreas of Concern:")
	for _, item := range d.Rationale.Concerns {
		fmt.Fprintf(w, "- %s\n", item)
	}

	fmt.Fprintln(w, "\nNext Steps:")
	for _, item := range d.NextSteps.ImmediateActions {
		fmt.Fprintf(w, "- %s\n", item)
	}
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustReadFile(path, what string, logger *zap.Logger) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the "+what+" file", zap.Error(err))
	}
	return data
}
