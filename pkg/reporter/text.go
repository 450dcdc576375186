package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdmath/internal/ui/pretty"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// TextReporter writes styled terminal output with source context.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's error, diagnostics and golden status and
// returns the number of diagnostics written.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	if len(file.Diagnostics) > 0 {
		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Diagnostics)))
		}
		for idx := range file.Diagnostics {
			diag := file.Diagnostics[idx]
			diag.FilePath = path

			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = sourceLineAt(file.Snapshot, diag.StartLine)
			}
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag, r.opts.ShowContext, sourceLine))
		}
		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw)
		}
	}

	r.reportGolden(file.Golden)

	return len(file.Diagnostics)
}

func (r *TextReporter) reportGolden(res *golden.Result) {
	if res == nil {
		return
	}
	tracePath := displayPath(res.Path, r.opts.WorkingDir)

	switch res.Status {
	case golden.StatusMismatch:
		var additions, deletions int
		if res.Diff != nil {
			additions, deletions = res.Diff.Additions, res.Diff.Deletions
		}
		fmt.Fprintf(r.bw, "%s: %s %s\n",
			r.styles.FilePath.Render(tracePath),
			r.styles.Failure.Render("trace differs"),
			r.styles.Dim.Render(fmt.Sprintf("(+%d -%d, use --format diff to see changes)", additions, deletions)),
		)
	case golden.StatusMissing:
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(tracePath),
			r.styles.Failure.Render("trace missing, run with --update to record it"),
		)
	case golden.StatusUpdated:
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(tracePath),
			r.styles.Success.Render("trace updated"),
		)
	case golden.StatusMatch:
	}
}

// sourceLineAt returns line lineNum of the snapshot source, or "".
func sourceLineAt(snapshot *mdevent.Snapshot, lineNum int) string {
	if snapshot == nil {
		return ""
	}
	return string(snapshot.LineContent(lineNum))
}
