package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocallout/internal/logging"
	"github.com/yaklabco/gocallout/internal/ui/pretty"
	"github.com/yaklabco/gocallout/pkg/config"
	"github.com/yaklabco/gocallout/pkg/fsutil"
	"github.com/yaklabco/gocallout/pkg/pipeline"
	"github.com/yaklabco/gocallout/pkg/runner"
)

type renderCmdFlags struct {
	renderFlags
	stdout bool
	quiet  bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderCmdFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	addPipelineFlags(cmd, &cfg, &flags.renderFlags)
	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", "", "output directory (default: next to each source)")
	cmd.Flags().StringVar(&cfg.Extension, "ext", "", "extension of rendered files (default .html)")
	cmd.Flags().BoolVar(&cfg.Standalone, "standalone", false, "wrap output in a complete HTML page")
	cmd.Flags().BoolVar(&cfg.UnsafeHTML, "unsafe", false, "pass raw HTML and dangerous URLs through")
	cmd.Flags().BoolVar(&cfg.Highlight, "highlight", false, "syntax highlight fenced code")
	cmd.Flags().StringVar(&cfg.HighlightStyle, "highlight-style", "", "chroma style for --highlight (default github)")
	cmd.Flags().BoolVar(&cfg.DetectLanguage, "detect-language", false, "guess the language of unlabelled fences")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "render without writing output files")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "write the rendered HTML of a single file to stdout")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress the summary")

	return cmd
}

const renderLongDescription = `Render Markdown files to HTML.

By default, renders all .md and .markdown files in the current directory
and subdirectories, writing each result next to its source with an .html
extension. Files whose output already holds the rendered content are left
untouched.

Examples:
  gocallout render                        # Render current directory
  gocallout render docs/ --out site/      # Mirror docs/ into site/
  gocallout render README.md --stdout     # Print one file
  gocallout render --standalone           # Write complete HTML pages
  gocallout render --highlight --dry-run  # Render without writing`

func runRender(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *renderCmdFlags) error {
	ctx := contextOf(cmd)
	logger := logging.FromContext(ctx)

	if flags.stdout && len(args) != 1 {
		return fmt.Errorf("%w: --stdout needs exactly one file, got %d", ErrInvalidUsage, len(args))
	}

	flags.apply(cmd, cliCfg)
	loaded, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}
	flags.finish(loaded.cfg)
	cfg := loaded.cfg

	renderPipeline := pipeline.New(runner.PipelineOptions(cfg))

	if flags.stdout {
		return renderToStdout(cmd, args[0], renderPipeline, cfg)
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   loaded.workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Mode:         runner.ModeRender,
		Config:       cfg,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(renderPipeline).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("render run failed: %w", err)
	}

	for _, fileErr := range result.Errors() {
		logger.Error("render failed", logging.FieldError, fileErr)
	}

	if !flags.quiet {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
		if _, err := fmt.Fprint(cmd.OutOrStdout(), styles.FormatSummary(result.Stats)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	logger.Debug("render complete",
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldCallouts, result.Stats.Callouts,
		logging.FieldAdmonitions, result.Stats.Admonitions,
	)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailures
	}
	return nil
}

// renderToStdout renders one file and writes the page to the command output.
func renderToStdout(cmd *cobra.Command, path string, p *pipeline.Pipeline, cfg *config.Config) error {
	ctx := contextOf(cmd)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	source, _, err := fsutil.ReadFile(ctx, absPath)
	if err != nil {
		return err
	}

	rendered, err := p.Render(ctx, source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	page, err := runner.Page(rendered, absPath, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), page); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
