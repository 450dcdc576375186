package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/runner"
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
// Example: "3 issues (1 error, 2 warnings) in 2 files, 4 math blocks, 9 inline".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	math := s.Dim.Render(fmt.Sprintf("%d math %s, %d inline",
		stats.MathBlocks, plural(stats.MathBlocks, "block", "blocks"), stats.MathInline))

	var parts []string
	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed,
				plural(stats.FilesProcessed, wordFile, wordFiles)))+", "+math)
	} else {
		total := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
		if breakdown := s.severityBreakdown(stats.DiagnosticsBySeverity); breakdown != "" {
			total += " (" + breakdown + ")"
		}
		total += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles))
		parts = append(parts, total, math)
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}
	if stats.FixesApplied > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s applied in %d %s",
			stats.FixesApplied, plural(stats.FixesApplied, "fix", "fixes"),
			stats.FilesFixed, plural(stats.FilesFixed, wordFile, wordFiles))))
	}
	if golden := s.goldenBreakdown(stats); golden != "" {
		parts = append(parts, golden)
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) severityBreakdown(counts map[config.Severity]int) string {
	var parts []string
	if n := counts[config.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := counts[config.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := counts[config.SeverityInfo]; n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}
	return strings.Join(parts, ", ")
}

func (s *Styles) goldenBreakdown(stats runner.Stats) string {
	var parts []string
	if stats.GoldenMismatched > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s", stats.GoldenMismatched,
			plural(stats.GoldenMismatched, "trace differs", "traces differ"))))
	}
	if stats.GoldenMissing > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s missing", stats.GoldenMissing,
			plural(stats.GoldenMissing, "trace", "traces"))))
	}
	if stats.GoldenUpdated > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s updated", stats.GoldenUpdated,
			plural(stats.GoldenUpdated, "trace", "traces"))))
	}
	return strings.Join(parts, ", ")
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label, value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked:", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesErrored > 0 {
		row("Files unreadable:", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	row("Math blocks:", s.Math.Render(strconv.Itoa(stats.MathBlocks)))
	row("Inline math:", s.Math.Render(strconv.Itoa(stats.MathInline)))

	builder.WriteString("\n")

	row("Total issues:", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		row("  Errors:", s.Error.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		row("  Warnings:", s.Warning.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		row("  Info:", s.Info.Render(strconv.Itoa(n)))
	}

	if stats.GoldenMismatched+stats.GoldenMissing+stats.GoldenUpdated > 0 {
		builder.WriteString("\n")
		if stats.GoldenMismatched > 0 {
			row("Traces differing:", s.Failure.Render(strconv.Itoa(stats.GoldenMismatched)))
		}
		if stats.GoldenMissing > 0 {
			row("Traces missing:", s.Failure.Render(strconv.Itoa(stats.GoldenMissing)))
		}
		if stats.GoldenUpdated > 0 {
			row("Traces updated:", s.Success.Render(strconv.Itoa(stats.GoldenUpdated)))
		}
	}

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0, stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.GoldenMismatched > 0, stats.GoldenMissing > 0:
		builder.WriteString(s.Failure.Render("Check failed: traces out of date"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
