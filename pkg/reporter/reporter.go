// Package reporter writes the callout findings of a run as a table, JSON
// or YAML.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gocallout/pkg/runner"
)

// Reporter formats and writes inspection results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of findings reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatTable
	}

	switch format {
	case FormatJSON, FormatYAML:
		return newStructuredReporter(opts, format), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// countFindings returns the number of findings across all files.
func countFindings(result *runner.Result) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, file := range result.Files {
		total += len(file.Findings)
	}
	return total
}

// relativePath makes path relative to workDir when it lies beneath it.
func relativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
