// Package artifacts persists pipeline outputs as prefix-named files, the
// exchange format consumed by downstream tooling.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/parthshr370/IntHR/internal/pipeline"
)

// Artifact file suffixes. The names are a compatibility contract.
const (
	SuffixProfile    = "parsed_resume.json"
	SuffixAnalysis   = "match_analysis.json"
	SuffixDecision   = "decision.json"
	SuffixAssessment = "assessment_report.txt"
)

// Writer persists run artifacts under a common path prefix, so one run's
// files sort together: <prefix>_parsed_resume.json and so on.
type Writer struct {
	prefix string
	logger *zap.Logger
}

func NewWriter(prefix string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{prefix: prefix, logger: logger}
}

// Path returns the full path for one artifact suffix.
func (w *Writer) Path(suffix string) string {
	return fmt.Sprintf("%s_%s", w.prefix, suffix)
}

// WriteResult persists every artifact the run produced and returns the
// written paths. Artifacts for failed or skipped stages are absent, not
// written as empty files.
func (w *Writer) WriteResult(result *pipeline.Result, generatedAt time.Time) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("run result is required")
	}

	if dir := filepath.Dir(w.prefix); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory: %w", err)
		}
	}

	var written []string
	if result.Profile != nil {
		path, err := w.writeJSON(SuffixProfile, result.Profile)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if result.Analysis != nil {
		path, err := w.writeJSON(SuffixAnalysis, result.Analysis)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if result.Decision != nil {
		path, err := w.writeJSON(SuffixDecision, result.Decision)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if result.Assessment != nil {
		path := w.Path(SuffixAssessment)
		report := result.Assessment.Render(generatedAt, result.RunID)
		if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	w.logger.Debug("wrote artifacts", zap.Strings("paths", written))
	return written, nil
}

func (w *Writer) writeJSON(suffix string, v any) (string, error) {
	path := w.Path(suffix)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", suffix, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
