package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocallout/pkg/config"
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolatedOptions(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Equal(t, config.DefaultMaxDepth, result.Config.MaxDepth)
	assert.True(t, result.Config.FrontMatter)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gocallout.yml"), `
flavor: commonmark
max_depth: 4
front_matter: false
ignore:
  - "drafts/**"
`)

	result, err := Load(context.Background(), isolatedOptions(dir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.False(t, cfg.FrontMatter, "a file can switch a default-on option off")
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
	assert.Equal(t, config.DefaultExtension, cfg.Extension, "absent keys keep defaults")
	assert.Equal(t, []string{filepath.Join(dir, ".gocallout.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gocallout.yaml"), "highlight: true\n")

	nested := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolatedOptions(nested))
	require.NoError(t, err)
	assert.True(t, result.Config.Highlight)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gocallout.yml"), "extension: .htm\nmax_depth: 3\n")
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, "max_depth: 7\n")

	opts := isolatedOptions(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, ".htm", result.Config.Extension)
	assert.Equal(t, 7, result.Config.MaxDepth)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gocallout.yml"), "output_dir: site\n")

	opts := isolatedOptions(dir)
	opts.CLIConfig = &config.Config{OutputDir: "public", Standalone: true, Jobs: 3}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "public", result.Config.OutputDir)
	assert.True(t, result.Config.Standalone)
	assert.Equal(t, 3, result.Config.Jobs)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "flavor: [", wantErr: "parse YAML"},
		{name: "bad flavor", content: "flavor: rst\n", wantErr: "invalid flavor"},
		{name: "bad depth", content: "max_depth: 0\n", wantErr: "max_depth must be >= 1"},
		{name: "bad extension", content: "extension: html\n", wantErr: "must start with a dot"},
		{name: "bad glob", content: "ignore: [\"[\"]\n", wantErr: "invalid glob pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, ".gocallout.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolatedOptions(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_UnknownStyleWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gocallout.yml"), "highlight_style: no-such-style\n")

	result, err := Load(context.Background(), isolatedOptions(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no-such-style")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(cfg *config.Config)
		wantErrors   int
		wantWarnings int
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "unknown style", mutate: func(c *config.Config) { c.HighlightStyle = "nope" }, wantWarnings: 1},
		{name: "bad depth and jobs", mutate: func(c *config.Config) { c.MaxDepth = 0; c.Jobs = -1 }, wantErrors: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			result := Validate(cfg)
			assert.Equal(t, tt.wantErrors == 0, result.Valid())
			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GOCALLOUT_FLAVOR", "commonmark")
	t.Setenv("GOCALLOUT_FRONT_MATTER", "false")
	t.Setenv("GOCALLOUT_IGNORE", " a.md , ,b/** ")
	t.Setenv("GOCALLOUT_MAX_DEPTH", "2")

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.False(t, result.Config.FrontMatter)
	assert.Equal(t, []string{"a.md", "b/**"}, result.Config.Ignore)
	assert.Equal(t, 2, result.Config.MaxDepth)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("GOCALLOUT_HIGHLIGHT", "maybe")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOCALLOUT_HIGHLIGHT")
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GOCALLOUT_MAX_DEPTH", GetEnvVarName("max_depth"))
	assert.Empty(t, GetEnvVarName("nope"))

	vars := ListEnvVars()
	require.Len(t, vars, len(envBindings))
	for i := 1; i < len(vars); i++ {
		assert.Less(t, vars[i-1].Name, vars[i].Name)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a"}

	merged := MergeAll(base, &config.Config{Flavor: config.FlavorCommonMark}, &config.Config{Ignore: []string{"b"}, DryRun: true})

	assert.Equal(t, config.FlavorCommonMark, merged.Flavor)
	assert.Equal(t, []string{"b"}, merged.Ignore)
	assert.True(t, merged.DryRun)
	assert.True(t, merged.FrontMatter)
	assert.Equal(t, []string{"a"}, base.Ignore, "inputs are not mutated")
	assert.Nil(t, MergeAll())
}
