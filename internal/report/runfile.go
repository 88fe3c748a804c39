package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// Meta describes the environment of a run.
type Meta struct {
	RunID     string
	Compiler  string
	Corpus    string
	Workers   int
	Timeout   time.Duration
	StartedAt time.Time
	Duration  time.Duration
}

// NewMeta returns Meta with a fresh run ID and the current time.
func NewMeta(compiler, corpus string, workers int, timeout time.Duration) Meta {
	return Meta{
		RunID:     uuid.NewString(),
		Compiler:  compiler,
		Corpus:    corpus,
		Workers:   workers,
		Timeout:   timeout,
		StartedAt: time.Now().UTC(),
	}
}

// RunReport is the machine-readable form of a run, written as JSON or YAML.
type RunReport struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  string        `json:"duration" yaml:"duration"`
	Compiler  string        `json:"compiler" yaml:"compiler"`
	Corpus    string        `json:"corpus" yaml:"corpus"`
	Workers   int           `json:"workers" yaml:"workers"`
	Timeout   string        `json:"timeout" yaml:"timeout"`
	Result    string        `json:"result" yaml:"result"`
	Passed    int           `json:"passed" yaml:"passed"`
	Total     int           `json:"total" yaml:"total"`
	Stages    []StageReport `json:"stages" yaml:"stages"`
}

// StageReport is one stage entry of a RunReport.
type StageReport struct {
	Stage    int      `json:"stage" yaml:"stage"`
	Variant  string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	Status   string   `json:"status" yaml:"status"`
	Passed   int      `json:"passed" yaml:"passed"`
	Total    int      `json:"total" yaml:"total"`
	TimedOut int      `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	Failed   []string `json:"failed,omitempty" yaml:"failed,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Build converts a run summary into a RunReport.
func Build(run model.RunSummary, meta Meta) RunReport {
	rep := RunReport{
		RunID:     meta.RunID,
		StartedAt: meta.StartedAt,
		Duration:  meta.Duration.Round(time.Millisecond).String(),
		Compiler:  meta.Compiler,
		Corpus:    meta.Corpus,
		Workers:   meta.Workers,
		Timeout:   meta.Timeout.String(),
		Passed:    run.Passed(),
		Total:     run.Total(),
		Stages:    make([]StageReport, 0, len(run.Stages)),
	}
	if run.OK() {
		rep.Result = StatusPassed
	} else {
		rep.Result = StatusFailed
	}

	for _, s := range run.Stages {
		sr := StageReport{
			Stage:    s.Stage.Stage,
			Variant:  s.Stage.Variant,
			Status:   StageStatus(s),
			Passed:   s.Passed,
			Total:    s.Total,
			TimedOut: s.TimedOut,
			Failed:   s.Failed,
		}
		if s.Err != nil {
			sr.Error = s.Err.Error()
		}
		rep.Stages = append(rep.Stages, sr)
	}
	return rep
}

// Marshal encodes rep in the given format ("json" or "yaml").
func Marshal(rep RunReport, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(rep)
	default:
		return nil, fmt.Errorf("unsupported report format %q (use json or yaml)", format)
	}
}

// FormatForPath picks the report format from a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("report file %q must end in .json, .yaml or .yml", path)
	}
}

// WriteFile writes the report of run to path, choosing the format from the
// file extension.
func WriteFile(path string, run model.RunSummary, meta Meta) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(Build(run, meta), format)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
