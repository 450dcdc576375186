package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding       = 2
	tableColumnCount   = 4 // FILE, LOC, MESSAGE, CHECK
	perFileColumnCount = 3 // LOC, MESSAGE, CHECK
	minFileWidth       = 20
	minLocWidth        = 8
	minMessageWidth    = 35
	minCheckWidth      = 12
	heavySeparator     = "="
	lightSeparator     = "-"
	defaultTermWidth   = 100
)

// TableRow is a single row in the diagnostic table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Check    string
	Severity config.Severity
}

func newTableRow(path string, diag *check.Diagnostic) TableRow {
	return TableRow{
		File:     path,
		Location: fmt.Sprintf("%d:%d", diag.StartLine, diag.StartColumn),
		Message:  diag.Message,
		Check:    diag.CheckName,
		Severity: diag.Severity,
	}
}

// TableFormatter formats diagnostics as a styled table.
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

type columnWidths struct {
	file    int
	loc     int
	message int
	check   int
}

func (w columnWidths) total(withFile bool) int {
	total := w.loc + w.message + w.check + tablePadding*perFileColumnCount
	if withFile {
		total = w.file + w.loc + w.message + w.check + tablePadding*tableColumnCount
	}
	return total
}

// FormatTable formats runner results as a styled table, grouping rows by
// file.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil {
		return ""
	}

	groups := collectRows(result)
	if len(groups) == 0 {
		return ""
	}

	var all []TableRow
	for _, group := range groups {
		all = append(all, group...)
	}
	widths := t.fitWidths(all, true)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths, true) + "\n")
	builder.WriteString(t.formatSeparator(widths, true, heavySeparator) + "\n")

	for idx, group := range groups {
		if idx > 0 {
			builder.WriteString(t.formatSeparator(widths, true, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths, true) + "\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, true, heavySeparator) + "\n")
	builder.WriteString(t.formatLegend() + "\n")

	return builder.String()
}

// FormatFileTable formats a single file's diagnostics as a standalone table
// with a per-file summary line.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	if len(file.Diagnostics) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(file.Diagnostics))
	for idx := range file.Diagnostics {
		rows = append(rows, newTableRow(file.Path, &file.Diagnostics[idx]))
	}
	widths := t.fitWidths(rows, false)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths, false) + "\n")
	builder.WriteString(t.formatSeparator(widths, false, heavySeparator) + "\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths, false) + "\n")
	}
	builder.WriteString(t.formatSeparator(widths, false, heavySeparator) + "\n")
	builder.WriteString(t.formatFileSummary(rows) + "\n")

	return builder.String()
}

func collectRows(result *runner.Result) [][]TableRow {
	var groups [][]TableRow
	for _, file := range result.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		rows := make([]TableRow, 0, len(file.Diagnostics))
		for idx := range file.Diagnostics {
			rows = append(rows, newTableRow(file.Path, &file.Diagnostics[idx]))
		}
		groups = append(groups, rows)
	}
	return groups
}

// fitWidths sizes columns to their content, then shrinks the message column
// and after it the file column until the table fits the terminal.
func (t *TableFormatter) fitWidths(rows []TableRow, withFile bool) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		loc:     minLocWidth,
		message: minMessageWidth,
		check:   minCheckWidth,
	}
	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.loc = max(widths.loc, len(row.Location))
		widths.message = max(widths.message, len(row.Message))
		widths.check = max(widths.check, len(row.Check))
	}

	if excess := widths.total(withFile) - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if withFile {
		if excess := widths.total(true) - t.termWidth; excess > 0 {
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}

	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths, withFile bool) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, "LOC",
		widths.message, "MESSAGE",
		widths.check, "CHECK",
	)
	if withFile {
		header = fmt.Sprintf(" %-*s ", widths.file, "FILE") + header
	}
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, withFile bool, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total(withFile)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths, withFile bool) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, truncateString(row.Location, widths.loc),
		widths.message, truncateString(row.Message, widths.message),
		widths.check, truncateString(row.Check, widths.check),
	)
	if withFile {
		content = fmt.Sprintf(" %-*s ", widths.file, truncateFilePath(row.File, widths.file)) + content
	}
	return t.rowStyle(row.Severity).Render(content)
}

func (t *TableFormatter) rowStyle(severity config.Severity) lipgloss.Style {
	switch severity {
	case config.SeverityError:
		return t.styles.TableErrorRow
	case config.SeverityWarning:
		return t.styles.TableWarnRow
	case config.SeverityInfo:
		return t.styles.TableInfoRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatFileSummary(rows []TableRow) string {
	counts := make(map[config.Severity]int)
	for _, row := range rows {
		counts[row.Severity]++
	}
	return " " + strings.ReplaceAll(t.styles.severityBreakdown(counts), ", ", " | ")
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: rows are tinted by severity (error, warning, info)")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s  %s  %s",
		t.styles.TableErrorRow.Render(" error "),
		t.styles.TableWarnRow.Render(" warning "),
		t.styles.TableInfoRow.Render(" info "),
	))
}

// FormatTableSummary formats the footer line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{fmt.Sprintf("%d %s checked", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))}

	if breakdown := t.styles.severityBreakdown(stats.DiagnosticsBySeverity); breakdown != "" {
		parts = append(parts, strings.Split(breakdown, ", ")...)
	}
	parts = append(parts, t.styles.Math.Render(fmt.Sprintf("%d math", stats.MathBlocks+stats.MathInline)))
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates str to maxLen, marking the cut with "...".
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath keeps the end of path, where the file name is.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
