package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocallout/internal/cli"
)

const (
	calloutDoc = "# Notes\n\n> [!note] Remember this\n"
	mixedDoc   = "---\ntitle: Guide\n---\n\n> [!tip]- Fold me\n> Hidden.\n\n```ad-warning\ntitle: Careful\nBody.\n```\n"
	deepDoc    = "```ad-note\n```ad-note\ninner\n```\n"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with an explicit, isolated config file.
func execute(t *testing.T, configYAML string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := writeFile(t, t.TempDir(), ".gocallout.yml", configYAML)

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_RenderWritesNextToSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "doc.md", calloutDoc)

	stdout, _, err := execute(t, "flavor: gfm\n", "render", src)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "doc.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `data-callout="note"`)
	assert.NotContains(t, string(out), "<html>")

	assert.Contains(t, stdout, "Files written:")
	assert.Contains(t, stdout, "Render complete")

	stdout, _, err = execute(t, "flavor: gfm\n", "render", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Files unchanged:")
}

func TestIntegration_RenderOutDirStandalone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "guide.md", mixedDoc)
	outDir := filepath.Join(t.TempDir(), "site")

	_, _, err := execute(t, "standalone: true\n", "render", src, "--out", outDir, "--ext", ".htm", "--quiet")
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(outDir, "guide.htm"))
	require.NoError(t, err)
	page := string(out)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<title>Guide</title>")
	assert.Contains(t, page, `data-callout="tip"`)
	assert.Contains(t, page, `data-callout="warning"`)
}

func TestIntegration_RenderStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "doc.md", calloutDoc)

	stdout, _, err := execute(t, "", "render", src, "--stdout")
	require.NoError(t, err)

	assert.Contains(t, stdout, `<details class="callout no-fold" open data-callout="note">`)
	assert.NotContains(t, stdout, "Summary")
	assert.NoFileExists(t, filepath.Join(dir, "doc.html"))
}

func TestIntegration_RenderStdoutNeedsOneFile(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "render", "--stdout")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
}

func TestIntegration_RenderDryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "doc.md", calloutDoc)

	stdout, _, err := execute(t, "", "render", src, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Files rendered:")
	assert.NoFileExists(t, filepath.Join(dir, "doc.html"))
}

func TestIntegration_RenderFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "deep.md", deepDoc)
	writeFile(t, dir, "ok.md", calloutDoc)

	stdout, _, err := execute(t, "", "render", dir, "--max-depth", "1")
	require.ErrorIs(t, err, cli.ErrRenderFailures)
	assert.Equal(t, cli.ExitRenderFailures, cli.ExitCodeFromError(err))

	assert.Contains(t, stdout, "Files failed:")
	assert.Contains(t, stdout, "Render failed")
	assert.FileExists(t, filepath.Join(dir, "ok.html"))
	assert.NoFileExists(t, filepath.Join(dir, "deep.html"))
}

func TestIntegration_RenderIgnore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "keep.md", calloutDoc)
	writeFile(t, dir, "drafts/skip.md", calloutDoc)

	_, _, err := execute(t, "", "render", dir, "--ignore", "**/drafts/**", "-q")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "keep.html"))
	assert.NoFileExists(t, filepath.Join(dir, "drafts", "skip.html"))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "flavor: markdown\n", "render", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
}

func TestIntegration_InspectFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "guide.md", mixedDoc)

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "", "inspect", src)
		require.NoError(t, err)
		assert.Contains(t, stdout, "tip")
		assert.Contains(t, stdout, "warning")
		assert.Contains(t, stdout, "Careful")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "", "inspect", src, "--format", "json")
		require.NoError(t, err)

		var out struct {
			Files []struct {
				Findings []struct {
					Kind string `json:"kind"`
					Type string `json:"type"`
					Line int    `json:"line"`
				} `json:"findings"`
			} `json:"files"`
			Summary struct {
				Callouts    int `json:"callouts"`
				Admonitions int `json:"admonitions"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))

		require.Len(t, out.Files, 1)
		require.Len(t, out.Files[0].Findings, 2)
		assert.Equal(t, "tip", out.Files[0].Findings[0].Type)
		assert.Equal(t, 5, out.Files[0].Findings[0].Line)
		assert.Equal(t, "warning", out.Files[0].Findings[1].Type)
		assert.Equal(t, 1, out.Summary.Callouts)
		assert.Equal(t, 1, out.Summary.Admonitions)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "", "inspect", src, "-f", "yml")
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
		summary, ok := out["summary"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 1, summary["files_checked"])
	})

	assert.NoFileExists(t, filepath.Join(dir, "guide.html"))
}

func TestIntegration_InspectUnknownFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "inspect", t.TempDir(), "--format", "sarif")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, content []byte)
	}{
		{
			name:   "yaml",
			format: "yaml",
			check: func(t *testing.T, content []byte) {
				t.Helper()
				var cfg map[string]any
				require.NoError(t, yaml.Unmarshal(content, &cfg))
				assert.Equal(t, "gfm", cfg["flavor"])
				assert.Equal(t, 16, cfg["max_depth"])
			},
		},
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, content []byte) {
				t.Helper()
				var cfg map[string]any
				require.NoError(t, json.Unmarshal(content, &cfg))
				assert.Equal(t, ".html", cfg["extension"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := filepath.Join(t.TempDir(), "config."+tt.format)

			_, _, err := execute(t, "", "init", "--format", tt.format, "--output", output)
			require.NoError(t, err)

			content, err := os.ReadFile(output)
			require.NoError(t, err)
			tt.check(t, content)

			_, _, err = execute(t, "", "init", "--format", tt.format, "--output", output)
			require.Error(t, err)

			_, _, err = execute(t, "", "init", "--format", tt.format, "--output", output, "--force")
			require.NoError(t, err)
		})
	}
}

func TestIntegration_InitInvalidFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}
