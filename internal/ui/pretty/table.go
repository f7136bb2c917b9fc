package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 6 // FILE, LINE, KIND, TYPE, FOLD, TITLE
	minFileWidth     = 16
	minLineWidth     = 4
	minKindWidth     = 10
	minTypeWidth     = 8
	minFoldWidth     = 4
	minTitleWidth    = 12
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow is one finding in the inspect table.
type TableRow struct {
	File  string
	Line  string
	Kind  string
	Type  string
	Fold  string
	Title string
}

// TableFormatter formats findings as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FindingRow converts a finding of the file at path to a table row.
// Nested admonition findings are indented by depth.
func FindingRow(path string, finding callout.Finding) TableRow {
	line := ""
	if finding.Line > 0 {
		line = strconv.Itoa(finding.Line)
	}
	return TableRow{
		File:  path,
		Line:  line,
		Kind:  strings.Repeat(" ", finding.Depth) + finding.Kind,
		Type:  finding.Type,
		Fold:  finding.Fold,
		Title: finding.Title,
	}
}

// FormatTable formats the findings of a run as a table grouped by file.
// pathFn maps outcome paths for display and may be nil.
func (t *TableFormatter) FormatTable(result *runner.Result, pathFn func(string) string) string {
	if result == nil {
		return ""
	}
	if pathFn == nil {
		pathFn = func(p string) string { return p }
	}

	var groups [][]TableRow
	for _, file := range result.Files {
		if file.Error != nil || len(file.Findings) == 0 {
			continue
		}
		rows := make([]TableRow, 0, len(file.Findings))
		for _, finding := range file.Findings {
			rows = append(rows, FindingRow(pathFn(file.Path), finding))
		}
		groups = append(groups, rows)
	}
	if len(groups) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	file  int
	line  int
	kind  int
	typ   int
	fold  int
	title int
}

func (w columnWidths) total() int {
	return w.file + w.line + w.kind + w.typ + w.fold + w.title + tablePadding*tableColumnCount
}

// calculateColumnWidths sizes columns to their content, then shrinks the
// title and file columns to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:  minFileWidth,
		line:  minLineWidth,
		kind:  minKindWidth,
		typ:   minTypeWidth,
		fold:  minFoldWidth,
		title: minTitleWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.line = max(widths.line, len(row.Line))
			widths.kind = max(widths.kind, len(row.Kind))
			widths.typ = max(widths.typ, len(row.Type))
			widths.fold = max(widths.fold, len(row.Fold))
			widths.title = max(widths.title, len(row.Title))
		}
	}

	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.title = max(minTitleWidth, widths.title-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.line, "LINE",
		widths.kind, "KIND",
		widths.typ, "TYPE",
		widths.fold, "FOLD",
		widths.title, "TITLE",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total()))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.line, row.Line,
		widths.kind, row.Kind,
		widths.typ, truncateString(row.Type, widths.typ),
		widths.fold, row.Fold,
		widths.title, truncateString(row.Title, widths.title),
	)
	return t.rowStyle(row.Kind).Render(content)
}

func (t *TableFormatter) rowStyle(kind string) lipgloss.Style {
	switch strings.TrimSpace(kind) {
	case callout.FindingCallout:
		return t.styles.Callout
	case callout.FindingAdmonition:
		return t.styles.Admonition
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: indented kinds are nested in an admonition body")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s  %s  indented kinds are nested",
		t.styles.Callout.Render(callout.FindingCallout),
		t.styles.Admonition.Render(callout.FindingAdmonition),
	))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
