// Package pretty renders diagnostics, golden diffs and run summaries for the
// terminal with Lip Gloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds every style used in terminal output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	CheckID    lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Math highlights math counts in summaries.
	Math lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableInfoRow   lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates Styles, colored or plain.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &Styles{
		Error:   color("9").Bold(true),
		Warning: color("11").Bold(true),
		Info:    color("12").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   color("8"),
		CheckID:    color("8"),
		Message:    lipgloss.NewStyle(),
		Suggestion: color("10").Italic(true),
		SourceLine: color("7").TabWidth(lipgloss.NoTabConversion),
		Caret:      color("9"),
		Math:       color("13"),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    color("14"),
		DiffAdd:     color("10"),
		DiffRemove:  color("9"),
		DiffContext: color("8"),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      color("10").Bold(true),
		Failure:      color("9").Bold(true),

		TableHeader:    color("7").Bold(true),
		TableErrorRow:  color("9"),
		TableWarnRow:   color("11"),
		TableInfoRow:   color("12"),
		TableLegend:    color("8").Italic(true),
		TableSeparator: color("8"),

		Dim:  color("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		Info:           plain,
		FilePath:       plain,
		Location:       plain,
		CheckID:        plain,
		Message:        plain,
		Suggestion:     plain,
		SourceLine:     plain.TabWidth(lipgloss.NoTabConversion),
		Caret:          plain,
		Math:           plain,
		DiffHeader:     plain,
		DiffHunk:       plain,
		DiffAdd:        plain,
		DiffRemove:     plain,
		DiffContext:    plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableErrorRow:  plain,
		TableWarnRow:   plain,
		TableInfoRow:   plain,
		TableLegend:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled resolves a color mode of "auto", "always" or "never". Auto
// colors only a terminal, and never when NO_COLOR is set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
