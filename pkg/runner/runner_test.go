package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/config"
	"github.com/yaklabco/gocallout/pkg/pipeline"
	"github.com/yaklabco/gocallout/pkg/runner"
)

const (
	calloutDoc = "> [!note] Remember this\n"
	mixedDoc   = "# Guide\n\n> [!warning]- Careful\n> body\n\n```ad-tip\ntitle:Pro tip\nSome body text\n```\n"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner(cfg *config.Config) *runner.Runner {
	return runner.New(pipeline.New(runner.PipelineOptions(cfg)))
}

func TestRunner_Run_NilPipeline(t *testing.T) {
	t.Parallel()

	_, err := (&runner.Runner{}).Run(context.Background(), runner.Options{})
	require.ErrorIs(t, err, runner.ErrNilPipeline)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_WritesNextToSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := writeDoc(t, dir, "docs/guide.md", mixedDoc)
	cfg := config.NewConfig()

	result, err := newRunner(cfg).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	outcome := result.Files[0]
	require.NoError(t, outcome.Error)
	assert.Equal(t, source, outcome.Path)
	assert.Equal(t, filepath.Join(dir, "docs", "guide.html"), outcome.OutputPath)
	assert.True(t, outcome.Written)
	assert.Equal(t, pipeline.Stats{Callouts: 1, Admonitions: 1}, outcome.Stats)

	require.Len(t, outcome.Findings, 2)
	assert.Equal(t, callout.FindingCallout, outcome.Findings[0].Kind)
	assert.Equal(t, 3, outcome.Findings[0].Line)
	assert.Equal(t, callout.FindingAdmonition, outcome.Findings[1].Kind)

	html, err := os.ReadFile(outcome.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-callout="warning"`)
	assert.Contains(t, string(html), `data-callout-title="Pro tip"`)
	assert.NotContains(t, string(html), "<!DOCTYPE html>")

	assert.Equal(t, runner.Stats{
		FilesDiscovered: 1,
		FilesRendered:   1,
		FilesWritten:    1,
		Callouts:        1,
		Admonitions:     1,
	}, result.Stats)
}

func TestRunner_Run_SecondRunUnchanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.md", calloutDoc)
	cfg := config.NewConfig()
	r := newRunner(cfg)
	opts := runner.Options{WorkingDir: dir, Config: cfg}

	_, err := r.Run(context.Background(), opts)
	require.NoError(t, err)

	result, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.FilesWritten)
	assert.Equal(t, 1, result.Stats.FilesUnchanged)
}

func TestRunner_Run_OutputCollision(t *testing.T) {
	t.Parallel()

	t.Run("sources outside the working directory", func(t *testing.T) {
		t.Parallel()

		work := t.TempDir()
		first := writeDoc(t, t.TempDir(), "README.md", "> [!note] First\n")
		second := writeDoc(t, t.TempDir(), "README.md", "> [!note] Second\n")

		cfg := config.NewConfig()
		cfg.OutputDir = "site"

		result, err := newRunner(cfg).Run(context.Background(), runner.Options{
			Paths:      []string{first, second},
			WorkingDir: work,
			Config:     cfg,
			Jobs:       2,
		})
		require.NoError(t, err)
		require.Len(t, result.Files, 2)
		assert.True(t, result.HasFailures())
		assert.Equal(t, 1, result.Stats.FilesWritten)
		assert.Equal(t, 1, result.Stats.FilesErrored)

		out := filepath.Join(work, "site", "README.html")
		var owner runner.FileOutcome
		for _, outcome := range result.Files {
			assert.Equal(t, out, outcome.OutputPath)
			if outcome.Error != nil {
				require.ErrorIs(t, outcome.Error, runner.ErrOutputCollision)
				assert.False(t, outcome.Written)
				continue
			}
			owner = outcome
		}
		require.True(t, owner.Written)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		want := "First"
		if owner.Path == second {
			want = "Second"
		}
		assert.Contains(t, string(data), want)
	})

	t.Run("sibling extensions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDoc(t, dir, "a.markdown", "> [!note] Kept\n")
		writeDoc(t, dir, "a.md", "> [!note] Dropped\n")
		cfg := config.NewConfig()

		result, err := newRunner(cfg).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
		require.NoError(t, err)
		require.Len(t, result.Files, 2)

		require.NoError(t, result.Files[0].Error)
		require.ErrorIs(t, result.Files[1].Error, runner.ErrOutputCollision)
		assert.Contains(t, result.Files[1].Error.Error(), "a.markdown")

		data, err := os.ReadFile(filepath.Join(dir, "a.html"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Kept")
		assert.NotContains(t, string(data), "Dropped")
	})

	t.Run("inspect mode ignores outputs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDoc(t, dir, "a.markdown", calloutDoc)
		writeDoc(t, dir, "a.md", calloutDoc)
		cfg := config.NewConfig()

		result, err := newRunner(cfg).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Config:     cfg,
			Mode:       runner.ModeInspect,
		})
		require.NoError(t, err)
		assert.False(t, result.HasFailures())
	})
}

func TestRunner_Run_OutputDirStandalone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "docs/intro.md", "---\ntitle: Welcome\n---\n"+calloutDoc)
	writeDoc(t, dir, "notes.markdown", calloutDoc)

	cfg := config.NewConfig()
	cfg.OutputDir = "site"
	cfg.Extension = ".htm"
	cfg.Standalone = true

	result, err := newRunner(cfg).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg, Jobs: 2})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Equal(t, 2, result.Stats.FilesWritten)

	intro, err := os.ReadFile(filepath.Join(dir, "site", "docs", "intro.htm"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(intro), "<!DOCTYPE html>"))
	assert.Contains(t, string(intro), "<title>Welcome</title>")

	notes, err := os.ReadFile(filepath.Join(dir, "site", "notes.htm"))
	require.NoError(t, err)
	assert.Contains(t, string(notes), "<title>notes</title>")
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.md", calloutDoc)
	cfg := config.NewConfig()
	cfg.DryRun = true

	result, err := newRunner(cfg).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	assert.Equal(t, filepath.Join(dir, "a.html"), result.Files[0].OutputPath)
	assert.False(t, result.Files[0].Written)
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
	assert.Zero(t, result.Stats.FilesWritten)
	assert.Zero(t, result.Stats.FilesUnchanged)
	assert.Equal(t, 1, result.Stats.Callouts)
}

func TestRunner_Run_Inspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.md", mixedDoc)
	cfg := config.NewConfig()

	result, err := newRunner(cfg).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     cfg,
		Mode:       runner.ModeInspect,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	assert.Empty(t, result.Files[0].OutputPath)
	assert.Len(t, result.Files[0].Findings, 2)
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
}

func TestRunner_Run_PerFileFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "deep.md", "```ad-note\n```ad-note\ninner\n```\n")
	writeDoc(t, dir, "ok.md", calloutDoc)

	cfg := config.NewConfig()
	cfg.MaxDepth = 1

	result, err := newRunner(cfg).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesRendered)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0].Error(), "deep.md")
	assert.NoError(t, result.Files[1].Error)
}

func TestRunner_Run_SerialVsParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c/d.md", "c/e.md", "f.md"} {
		writeDoc(t, dir, name, mixedDoc)
	}
	cfg := config.NewConfig()
	cfg.DryRun = true
	r := newRunner(cfg)

	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg, Jobs: 1})
	require.NoError(t, err)
	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Stats, parallel.Stats)
	require.Len(t, parallel.Files, 5)
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Findings, parallel.Files[i].Findings)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.md", calloutDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(nil).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	work := filepath.FromSlash("/work")
	outside := filepath.FromSlash("/elsewhere/x.md")

	tests := []struct {
		name   string
		source string
		outDir string
		ext    string
		want   string
	}{
		{name: "next to source", source: "/work/docs/a.md", want: "/work/docs/a.html"},
		{name: "custom extension", source: "/work/a.markdown", ext: ".htm", want: "/work/a.htm"},
		{name: "relative out dir", source: "/work/docs/a.md", outDir: "site", want: "/work/site/docs/a.html"},
		{name: "absolute out dir", source: "/work/a.md", outDir: "/out", want: "/out/a.html"},
		{name: "source outside work dir", source: outside, outDir: "site", want: "/work/site/x.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.OutputDir = filepath.FromSlash(tt.outDir)
			if tt.ext != "" {
				cfg.Extension = tt.ext
			}

			got := runner.OutputPath(filepath.FromSlash(tt.source), work, cfg)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Flavor = config.FlavorCommonMark
	cfg.UnsafeHTML = true
	cfg.LangPrefix = "language-"

	opts := runner.PipelineOptions(cfg)
	assert.Equal(t, "commonmark", opts.Flavor)
	assert.True(t, opts.Unsafe)
	assert.True(t, opts.FrontMatter)
	assert.Equal(t, "language-", opts.LangPrefix)
	assert.Equal(t, config.DefaultMaxDepth, opts.MaxDepth)

	assert.Equal(t, "gfm", runner.PipelineOptions(nil).Flavor)
}
