package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/parthshr370/IntHR/internal/artifacts"
	"github.com/parthshr370/IntHR/internal/candidate"
	"github.com/parthshr370/IntHR/internal/logger"
	"github.com/parthshr370/IntHR/internal/pipeline"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	PromptInspect        = "Inspect a decision"
	PromptWriteArtifacts = "Write artifacts"
	PromptQuit           = "Quit"
	PromptBack           = "back"
)

var errExit = errors.New("exit requested")

var batchPrompt = promptui.Select{
	Label: "Next action",
	Items: []string{PromptInspect, PromptWriteArtifacts, PromptQuit},
}

var batchCmd = &cobra.Command{
	Use:   "batch <profiles-dir>",
	Short: "Score every candidate profile in a directory against one job requirement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		batch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("job", "", "path to the job requirement file")
	batchCmd.Flags().StringP("weights", "w", "", "path to a category weights override file")
	batchCmd.Flags().StringP("output", "o", "out", "directory for written artifacts")
	batchCmd.Flags().StringP("level", "l", "", "candidate seniority level: junior, mid, or senior")
	batchCmd.Flags().IntP("concurrency", "c", 4, "maximum candidates scored at once")
	batchCmd.Flags().BoolP("yes", "y", false, "write artifacts for every candidate instead of offering the action menu")

	batchCmd.MarkFlagRequired("job")
}

type batchEntry struct {
	stem   string
	result *pipeline.Result
}

// batch is the directory fan-out command.
func batch(cmd *cobra.Command, dir string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting inthr batch", zap.String("version", version))

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
	pcfg.Cache = pipeline.NewCache()

	p, err := pipeline.New(pcfg, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	jobPath := flagString(cmd, "job")
	reqJSON := mustReadFile(jobPath, "job requirement", logger)
	if _, err := candidate.ParseRequirement(reqJSON); err != nil {
		logger.Error("cannot process the job requirement", zap.Error(err))
		os.Exit(1)
	}

	profiles, err := profilePaths(dir, jobPath)
	if err != nil {
		logger.Fatal("listing candidate profiles", zap.Error(err))
	}
	if len(profiles) == 0 {
		logger.Info("exiting", zap.String("reason", "no profile documents found"))
		return
	}

	// One shared requirement across the whole batch is the case the
	// provider-side content cache exists for.
	if prov != nil {
		prov.warmRequirementCache(ctx, candidateStem(jobPath), reqJSON, logger)
	}

	concurrency := flagInt(cmd, "concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	logger.Info("scoring candidates",
		zap.Int("count", len(profiles)),
		zap.Int("concurrency", concurrency),
	)

	entries := make([]*batchEntry, len(profiles))

	var group errgroup.Group
	group.SetLimit(concurrency)
	for i, path := range profiles {
		group.Go(func() error {
			stem := candidateStem(path)
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Error("skipping unreadable profile", zap.String("path", path), zap.Error(err))
				entries[i] = &batchEntry{stem: stem, result: &pipeline.Result{CandidateID: stem, Err: err}}
				return nil
			}
			entries[i] = &batchEntry{stem: stem, result: p.Run(ctx, pipeline.Request{
				CandidateID:     stem,
				ProfileJSON:     data,
				RequirementJSON: reqJSON,
			})}
			return nil
		})
	}
	// Candidate failures are recorded per entry, never returned.
	_ = group.Wait()

	printBatchSummary(os.Stdout, entries)

	if flagBool(cmd, "yes") {
		if err := writeBatchArtifacts(entries, flagString(cmd, "output"), logger); err != nil {
			logger.Fatal("writing artifacts", zap.Error(err))
		}
		exitBatch(entries)
	}

	for {
		_, action, err := batchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleBatchAction(action, entries, flagString(cmd, "output"), logger); err != nil {
			if errors.Is(err, errExit) {
				exitBatch(entries)
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleBatchAction(action string, entries []*batchEntry, outputDir string, logger *zap.Logger) error {
	switch action {
	case PromptInspect:
		return inspectDecision(entries, logger)
	case PromptWriteArtifacts:
		return writeBatchArtifacts(entries, outputDir, logger)
	case PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspectDecision(entries []*batchEntry, logger *zap.Logger) error {
	items := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		label := e.stem
		if d := e.result.Decision; d != nil {
			label = fmt.Sprintf("%s / %s / %s", e.stem, d.Details.Status, d.Details.InterviewStage)
		}
		items = append(items, label)
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, selected, err := candidatePrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	e := entries[idx]
	if e.result.Decision == nil {
		logger.Info("no decision for candidate",
			zap.String("candidate_id", e.stem),
			zap.Error(e.result.Err),
		)
		return nil
	}

	pretty, _ := json.MarshalIndent(e.result.Decision, "", "  ")
	logger.Info(string(pretty), zap.String("candidate_id", e.stem))
	return nil
}

func writeBatchArtifacts(entries []*batchEntry, outputDir string, logger *zap.Logger) error {
	files := 0
	for _, e := range entries {
		if e.result == nil || e.result.Decision == nil {
			continue
		}

		writer := artifacts.NewWriter(filepath.Join(outputDir, e.stem), logger)
		paths, err := writer.WriteResult(e.result, time.Now())
		if err != nil {
			return fmt.Errorf("candidate %s: %w", e.stem, err)
		}
		files += len(paths)
	}

	logger.Info("wrote artifacts", zap.Int("files", files), zap.String("directory", outputDir))
	return nil
}

func printBatchSummary(w io.Writer, entries []*batchEntry) {
	fmt.Fprintf(w, "\n%-28s %-8s %-10s %-12s %s\n", "CANDIDATE", "SCORE", "STATUS", "STAGE", "CONFIDENCE")
	for _, e := range entries {
		score, status, stage, confidence := "-", "-", "-", "-"
		if a := e.result.Analysis; a != nil {
			score = strconv.Itoa(a.MatchScore)
		}
		if d := e.result.Decision; d != nil {
			status = string(d.Details.Status)
			stage = string(d.Details.InterviewStage)
			confidence = strconv.FormatFloat(d.Details.ConfidenceScore, 'f', -1, 64)
		} else if e.result.Err != nil {
			status = "ERROR"
		}
		fmt.Fprintf(w, "%-28s %-8s %-10s %-12s %s\n", e.stem, score, status, stage, confidence)
	}
}

// exitBatch terminates with the run exit contract: degraded or failed
// candidates surface as a non-zero code even though the batch finished.
func exitBatch(entries []*batchEntry) {
	for _, e := range entries {
		if e.result != nil && (e.result.Err != nil || e.result.Degraded()) {
			os.Exit(exitDegraded)
		}
	}
	os.Exit(0)
}

func profilePaths(dir, jobPath string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	jobAbs, _ := filepath.Abs(jobPath)

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, de.Name())
		if abs, _ := filepath.Abs(path); abs == jobAbs {
			continue
		}
		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths, nil
}

func candidateStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func flagInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
