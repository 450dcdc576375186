package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
)

// sourceIndent aligns source context under the diagnostic line.
const sourceIndent = "        "

// FormatDiagnostic formats a diagnostic as
//
//	path:line:col  severity  message  (name)
//
// followed by the source line with a marker under the span when showContext
// is set, and the suggestion if there is one.
func (s *Styles) FormatDiagnostic(diag *check.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.CheckID.Render("("+diag.CheckName+")"),
	)

	if showContext && sourceLine != "" {
		width := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			width = diag.EndColumn - diag.StartColumn
		}
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, width))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext prints line and marks width columns starting at
// column with a caret and tildes. Columns count bytes, so tabs in the line
// are kept and mirrored in the padding.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	line = strings.TrimRight(line, "\r\n")

	var builder strings.Builder
	builder.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")

	if column <= 0 {
		return builder.String()
	}

	var pad strings.Builder
	for idx := 0; idx < column-1; idx++ {
		if idx < len(line) && line[idx] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	width = max(1, min(width, len(line)-(column-1)))
	marker := "^" + strings.Repeat("~", width-1)
	builder.WriteString(sourceIndent + pad.String() + s.Caret.Render(marker) + "\n")

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
