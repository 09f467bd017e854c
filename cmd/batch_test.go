package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/parthshr370/IntHR/internal/decision"
	"github.com/parthshr370/IntHR/internal/match"
	"github.com/parthshr370/IntHR/internal/pipeline"

	"go.uber.org/zap"
)

func TestProfilePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	job := filepath.Join(dir, "job.json")
	if err := os.WriteFile(job, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := profilePaths(dir, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
}

func TestCandidateStem(t *testing.T) {
	cases := map[string]string{
		filepath.Join("resumes", "dana_smith.json"): "dana_smith",
		"resume.json": "resume",
		"noext":       "noext",
	}
	for in, want := range cases {
		if got := candidateStem(in); got != want {
			t.Fatalf("candidateStem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrintBatchSummary(t *testing.T) {
	scored := decision.DefaultDecision()
	scored.Details.Status = decision.StatusProceed
	scored.Details.ConfidenceScore = 85
	scored.Details.InterviewStage = decision.StageFullLoop

	entries := []*batchEntry{
		{stem: "dana", result: &pipeline.Result{
			Analysis: &match.Analysis{MatchScore: 83},
			Decision: scored,
		}},
		{stem: "broken", result: &pipeline.Result{Err: errors.New("parse failed")}},
	}

	var buf bytes.Buffer
	printBatchSummary(&buf, entries)

	out := buf.String()
	for _, want := range []string{"CANDIDATE", "dana", "83", "PROCEED", "FULL_LOOP", "85", "broken", "ERROR"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHandleBatchAction(t *testing.T) {
	if err := handleBatchAction(PromptQuit, nil, "", zap.NewNop()); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleBatchAction("bogus", nil, "", zap.NewNop()); err == nil {
		t.Fatal("expected an error for an unknown action")
	}
}

func TestWriteBatchArtifacts(t *testing.T) {
	out := t.TempDir()
	entries := []*batchEntry{
		{stem: "dana", result: &pipeline.Result{Decision: decision.DefaultDecision()}},
		{stem: "undecided", result: &pipeline.Result{}},
	}

	if err := writeBatchArtifacts(entries, out, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "dana_decision.json")); err != nil {
		t.Fatalf("expected a decision artifact: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "undecided_decision.json")); !os.IsNotExist(err) {
		t.Fatal("expected no artifacts for a candidate without a decision")
	}
}
