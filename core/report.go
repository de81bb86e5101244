package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ReportError is one errored partition's label and message, the shape the
// report file's "errors" array carries (spec.md §6: "per-error summaries").
type ReportError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Report is the structured JSON document written after a freeze run
// (spec.md §6: "fields include config echo, partitions_completed/
// skipped/errored counts, and per-error summaries"). Config is whatever
// the caller (the CLI layer) wants echoed back verbatim; core doesn't
// define its shape.
type Report struct {
	RunID               string        `json:"run_id"`
	StartTime           time.Time     `json:"start_time"`
	EndTime             time.Time     `json:"end_time"`
	Config              any           `json:"config,omitempty"`
	PartitionsCompleted int           `json:"partitions_completed"`
	PartitionsSkipped   int           `json:"partitions_skipped"`
	PartitionsErrored   int           `json:"partitions_errored"`
	Errors              []ReportError `json:"errors,omitempty"`
	OutputPaths         []string      `json:"output_paths,omitempty"`
}

// BuildReport assembles a Report from a completed run's summary and
// execution environment. RunID uses google/uuid, matching the run-id
// convention the rest of the ambient stack (logrus fields, report
// filenames) expects a stable unique identifier for.
func BuildReport(summary *FreezeSummary, env *ExecutionEnv, config any) *Report {
	r := &Report{
		RunID:               uuid.NewString(),
		StartTime:           env.TStart,
		EndTime:             env.TEnd,
		Config:              config,
		PartitionsCompleted: len(summary.Completed),
		PartitionsSkipped:   len(summary.Skipped),
		PartitionsErrored:   len(summary.Errored),
	}
	for _, o := range summary.Errored {
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
		}
		r.Errors = append(r.Errors, ReportError{Label: o.Label, Message: msg})
	}
	for _, o := range summary.Completed {
		for _, p := range o.Paths {
			r.OutputPaths = append(r.OutputPaths, p)
		}
	}
	return r
}

// WriteReport marshals r as indented JSON under
// "{reportDir or outputDir}/.blockfreeze/reports/{start-timestamp}.json".
func WriteReport(r *Report, reportDir, outputDir string) (string, error) {
	dir := reportDir
	if dir == "" {
		dir = outputDir
	}
	dir = filepath.Join(dir, ".blockfreeze", "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	name := r.StartTime.UTC().Format("20060102T150405Z") + ".json"
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return path, nil
}
