package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/pipeline"
	"github.com/yaklabco/gocallout/pkg/runner"
)

// schemaVersion versions the structured output layout.
const schemaVersion = "1.0.0"

// Output is the top-level structure of JSON and YAML reports.
type Output struct {
	Version string       `json:"version" yaml:"version"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FileReport is one file of a structured report.
type FileReport struct {
	Path     string            `json:"path" yaml:"path"`
	Findings []callout.Finding `json:"findings" yaml:"findings"`
	Stats    pipeline.Stats    `json:"stats" yaml:"stats"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary contains aggregate statistics.
type Summary struct {
	FilesChecked int `json:"filesChecked" yaml:"files_checked"`
	FilesErrored int `json:"filesErrored" yaml:"files_errored"`
	Callouts     int `json:"callouts" yaml:"callouts"`
	Admonitions  int `json:"admonitions" yaml:"admonitions"`
}

// structuredReporter writes reports as JSON or YAML documents.
type structuredReporter struct {
	opts   Options
	format Format
	bw     *bufio.Writer
}

func newStructuredReporter(opts Options, format Format) *structuredReporter {
	return &structuredReporter{
		opts:   opts,
		format: format,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *structuredReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildOutput(result, r.opts.WorkingDir)

	switch r.format {
	case FormatYAML:
		encoder := yaml.NewEncoder(r.bw)
		encoder.SetIndent(2)
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return 0, fmt.Errorf("close YAML encoder: %w", err)
		}
	default:
		encoder := json.NewEncoder(r.bw)
		if !r.opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("encode JSON: %w", err)
		}
	}

	return countFindings(result), nil
}

// BuildOutput converts a runner result into the structured report layout.
// Paths are made relative to workDir when possible.
func BuildOutput(result *runner.Result, workDir string) *Output {
	output := &Output{
		Version: schemaVersion,
		Files:   make([]FileReport, 0),
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		report := FileReport{
			Path:     relativePath(file.Path, workDir),
			Findings: file.Findings,
			Stats:    file.Stats,
		}
		if report.Findings == nil {
			report.Findings = []callout.Finding{}
		}
		if file.Error != nil {
			report.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		output.Summary.Callouts += file.Stats.Callouts
		output.Summary.Admonitions += file.Stats.Admonitions
		output.Summary.FilesChecked++
		output.Files = append(output.Files, report)
	}

	return output
}
