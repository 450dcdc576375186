package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/mdmath/internal/ui/pretty"
	"github.com/yaklabco/mdmath/pkg/analysis"
	"github.com/yaklabco/mdmath/pkg/config"
)

// Summary table layout. Both tables share one width.
const (
	tableWidth        = 90
	checkColWidth     = 26
	fileColWidth      = 46
	numColWidth       = 7
	warnColWidth      = 9
	maxCheckLength    = 24
	maxFilePathLength = 44
)

// padRight pads s with spaces on the right. Pad before styling: ANSI codes
// would count toward the width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads s with spaces on the left.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer prints per-check and per-file tables followed by totals.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found")+
			r.styles.Dim.Render(fmt.Sprintf(" (%d math blocks, %d inline)",
				report.Totals.MathBlocks, report.Totals.MathInline)))
		r.renderErrors(report.Errors)
		return nil
	}

	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderCheckTable(report.ByCheck)
	} else {
		r.renderCheckTable(report.ByCheck)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	r.renderErrors(report.Errors)
	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

// styledLabel tints a padded label by the worst severity it carries.
func (r *SummaryRenderer) styledLabel(label string, counts analysis.Counts) string {
	switch {
	case counts.Errors > 0:
		return r.styles.TableErrorRow.Render(label)
	case counts.Warnings > 0:
		return r.styles.TableWarnRow.Render(label)
	default:
		return label
	}
}

func (r *SummaryRenderer) renderCheckTable(checks []analysis.CheckAnalysis) {
	if len(checks) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Checks Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("ID", numColWidth)),
		r.styles.TableHeader.Render(padRight("Check", checkColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
	)
	r.separator()

	for _, ca := range checks {
		name := ca.CheckName
		if len(name) > maxCheckLength {
			name = name[:maxCheckLength] + "…"
		}
		fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
			r.styles.CheckID.Render(padRight(ca.CheckID, numColWidth)),
			r.styledLabel(padRight(name, checkColWidth), ca.Counts),
			padLeft(strconv.Itoa(ca.Issues), numColWidth),
			padLeft(strconv.Itoa(ca.Errors), numColWidth),
			padLeft(strconv.Itoa(ca.Warnings), warnColWidth),
			padLeft(strconv.Itoa(len(ca.Files)), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Math", numColWidth)),
	)
	r.separator()

	for _, fa := range files {
		path := fa.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			r.styledLabel(padRight(path, fileColWidth), fa.Counts),
			padLeft(strconv.Itoa(fa.Issues), numColWidth),
			padLeft(strconv.Itoa(fa.Errors), numColWidth),
			padLeft(strconv.Itoa(fa.Warnings), warnColWidth),
			padLeft(strconv.Itoa(fa.MathBlocks+fa.MathInline), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderErrors(errs []analysis.FileError) {
	for _, fileErr := range errs {
		fmt.Fprintf(r.out, "%s: %s\n",
			r.styles.FilePath.Render(fileErr.FilePath),
			r.styles.Error.Render("error: "+fileErr.Message),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	line := fmt.Sprintf("%d %s", totals.Issues, plural(totals.Issues, "issue", "issues"))

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(fmt.Sprintf("%d %s", totals.Errors, plural(totals.Errors, "error", "errors"))))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d %s", totals.Warnings, plural(totals.Warnings, "warning", "warnings"))))
	}
	if totals.Infos > 0 {
		severityParts = append(severityParts, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}

	line += fmt.Sprintf(" in %d %s", totals.FilesWithIssues, plural(totals.FilesWithIssues, "file", "files"))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
