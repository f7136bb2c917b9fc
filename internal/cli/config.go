package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocallout/internal/configloader"
	"github.com/yaklabco/gocallout/internal/logging"
	"github.com/yaklabco/gocallout/pkg/config"
)

// loadedConfig is the resolved configuration of a command invocation.
type loadedConfig struct {
	cfg     *config.Config
	workDir string
}

// loadConfig layers the configuration files, environment and cliCfg.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*loadedConfig, error) {
	logger := logging.FromContext(ctx)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldMaxDepth, cfg.MaxDepth,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return &loadedConfig{cfg: cfg, workDir: workDir}, nil
}

// contextOf returns the command context, or a background context.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// colorMode returns the --color flag value.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

// renderFlags holds the flags shared by render and inspect that feed the
// configuration.
type renderFlags struct {
	flavor        string
	ignore        []string
	noFrontMatter bool
}

// addPipelineFlags registers the flags that shape how documents render.
func addPipelineFlags(cmd *cobra.Command, cfg *config.Config, flags *renderFlags) {
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm (default gfm)")
	cmd.Flags().StringVar(&cfg.LangPrefix, "lang-prefix", "", `prefix stripped from fence info before "ad-" matching`)
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum admonition nesting depth (default 16)")
	cmd.Flags().BoolVar(&flags.noFrontMatter, "no-front-matter", false, "do not parse YAML front matter")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
}

// apply copies string flags into cfg before loading.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	cfg.Ignore = f.ignore
}

// finish applies the flags that switch loaded settings off.
func (f *renderFlags) finish(cfg *config.Config) {
	if f.noFrontMatter {
		cfg.FrontMatter = false
	}
}
