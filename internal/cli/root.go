// Package cli provides the Cobra command structure for gocallout.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocallout/internal/configloader"
	"github.com/yaklabco/gocallout/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

const rootLongDescription = `gocallout renders Markdown to HTML with Obsidian-style callouts
and "ad-" fenced admonitions.

Blockquotes whose first line is a [!type] marker become callout blocks,
optionally foldable with a trailing + or -. Fenced code blocks with an
ad-<type> info string become admonitions whose body is rendered as Markdown,
with title:, collapse: and other header lines read from the top of the fence.

Configuration is read from /etc/gocallout, the user config directory, the
nearest .gocallout.yml and the --config file, in that order. Environment
variables override files:
`

// NewRootCommand creates the root gocallout command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gocallout",
		Short: "Render Markdown with callouts and admonitions to HTML",
		Long:  rootLongDescription + envVarHelp(),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// envVarHelp lists the recognized environment variables, one per line.
func envVarHelp() string {
	vars := configloader.ListEnvVars()

	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, v.Name, v.Description)
	}
	return b.String()
}
