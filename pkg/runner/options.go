// Package runner renders sets of markdown files concurrently.
package runner

import (
	"github.com/yaklabco/gocallout/pkg/config"
	"github.com/yaklabco/gocallout/pkg/pipeline"
)

// Mode selects what the runner does with each rendered document.
type Mode int

const (
	// ModeRender writes rendered HTML to the output path.
	ModeRender Mode = iota

	// ModeInspect renders for findings only and never writes.
	ModeInspect
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// the output directory. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Mode selects rendering or inspection.
	Mode Mode

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}

// PipelineOptions maps a configuration onto pipeline options.
func PipelineOptions(cfg *config.Config) pipeline.Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return pipeline.Options{
		Flavor:         string(cfg.Flavor),
		LangPrefix:     cfg.LangPrefix,
		MaxDepth:       cfg.MaxDepth,
		FrontMatter:    cfg.FrontMatter,
		Unsafe:         cfg.UnsafeHTML,
		Highlight:      cfg.Highlight,
		HighlightStyle: cfg.HighlightStyle,
		DetectLanguage: cfg.DetectLanguage,
	}
}
