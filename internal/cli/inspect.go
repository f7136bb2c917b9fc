package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocallout/internal/logging"
	"github.com/yaklabco/gocallout/pkg/config"
	"github.com/yaklabco/gocallout/pkg/pipeline"
	"github.com/yaklabco/gocallout/pkg/reporter"
	"github.com/yaklabco/gocallout/pkg/runner"
)

type inspectFlags struct {
	renderFlags
	format  string
	compact bool
}

func newInspectCommand() *cobra.Command {
	var cfg config.Config
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [paths...]",
		Short: "List the callouts and admonitions of Markdown files",
		Long: `List every callout and admonition found in Markdown files without
writing any output. Nested admonition bodies are included with their depth
and absolute source line.

Examples:
  gocallout inspect                  # Table of the current directory
  gocallout inspect docs/ -f json    # JSON for scripts
  gocallout inspect README.md -f yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, &cfg, flags)
		},
	}

	addPipelineFlags(cmd, &cfg, &flags.renderFlags)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "table", "output format: table, json, yaml")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *inspectFlags) error {
	ctx := contextOf(cmd)
	logger := logging.FromContext(ctx)

	if cmd.Flags().Changed("format") {
		parsed, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		cliCfg.Format = config.OutputFormat(parsed.String())
	}

	flags.apply(cmd, cliCfg)
	loaded, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}
	flags.finish(loaded.cfg)
	cfg := loaded.cfg

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	result, err := runner.New(pipeline.New(runner.PipelineOptions(cfg))).Run(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   loaded.workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Mode:         runner.ModeInspect,
		Config:       cfg,
	})
	if err != nil {
		return fmt.Errorf("inspect run failed: %w", err)
	}

	for _, fileErr := range result.Errors() {
		logger.Error("render failed", logging.FieldError, fileErr)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  loaded.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailures
	}
	return nil
}
