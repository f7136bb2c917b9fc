package runner

import (
	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/pipeline"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the source file path.
	Path string `json:"path" yaml:"path"`

	// OutputPath is where the rendered HTML goes. Empty in inspect mode.
	OutputPath string `json:"output,omitempty" yaml:"output,omitempty"`

	// Findings lists the callouts and admonitions of the document.
	Findings []callout.Finding `json:"findings" yaml:"findings"`

	// Stats counts Findings by kind.
	Stats pipeline.Stats `json:"stats" yaml:"stats"`

	// Written is true when the output file was created or changed.
	Written bool `json:"written,omitempty" yaml:"written,omitempty"`

	// Error is set if the file could not be processed.
	Error error `json:"-" yaml:"-"`
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesRendered is the number of files rendered without error.
	FilesRendered int

	// FilesWritten is the number of output files created or changed.
	FilesWritten int

	// FilesUnchanged is the number of output files that already held the
	// rendered content.
	FilesUnchanged int

	// FilesErrored is the number of files that failed.
	FilesErrored int

	// Callouts and Admonitions total the per-file stats.
	Callouts    int
	Admonitions int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed to render.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// Errors returns the per-file errors in path order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

// accumulate updates the result with a file outcome. writes is false for
// inspect and dry runs, which never touch output files.
func (r *Result) accumulate(outcome FileOutcome, writes bool) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	r.Stats.Callouts += outcome.Stats.Callouts
	r.Stats.Admonitions += outcome.Stats.Admonitions

	if !writes {
		return
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	} else {
		r.Stats.FilesUnchanged++
	}
}
