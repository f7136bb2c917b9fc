package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gocallout/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Rendered 3 files: 5 callouts, 2 admonitions, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No markdown files found") + "\n"
	}

	head := fmt.Sprintf("Rendered %d %s", stats.FilesRendered, plural(stats.FilesRendered, wordFile, wordFiles))
	if stats.FilesErrored == 0 {
		head = s.Success.Render(head)
	}

	parts := []string{
		fmt.Sprintf("%d %s", stats.Callouts, plural(stats.Callouts, "callout", "callouts")),
		fmt.Sprintf("%d %s", stats.Admonitions, plural(stats.Admonitions, "admonition", "admonitions")),
	}
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return head + ": " + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	line := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	line("Files found", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	line("Files rendered", s.SummaryValue.Render(strconv.Itoa(stats.FilesRendered)))
	if stats.FilesWritten > 0 {
		line("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		line("Files unchanged", s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)))
	}
	if stats.FilesErrored > 0 {
		line("Files failed", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")
	line("Callouts", s.SummaryValue.Render(strconv.Itoa(stats.Callouts)))
	line("Admonitions", s.SummaryValue.Render(strconv.Itoa(stats.Admonitions)))
	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Error.Render("Render failed"))
	} else {
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
