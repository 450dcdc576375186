package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/mdmath/internal/ui/pretty"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter prints diagnostics as a table with rows tinted by severity.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, terminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	// Table rows hold display paths.
	shown := *result
	shown.Files = make([]runner.FileOutcome, len(result.Files))
	for idx, file := range result.Files {
		file.Path = displayPath(file.Path, r.opts.WorkingDir)
		shown.Files[idx] = file
	}

	for _, file := range shown.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
		}
	}

	total := result.Stats.DiagnosticsTotal
	if total == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files passed!"))
			fmt.Fprintln(r.bw, r.styles.Dim.Render(
				fmt.Sprintf("%d files checked", result.Stats.FilesProcessed),
			))
		}
		return 0, nil
	}

	if r.opts.PerFile {
		r.reportPerFile(&shown)
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(&shown))
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, ""))
		}
	}

	return total, nil
}

func (r *TableReporter) reportPerFile(result *runner.Result) {
	for _, file := range result.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.Bold.Render(file.Path))
		fmt.Fprint(r.bw, r.formatter.FormatFileTable(file))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("═", defaultTermWidth)))
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Overall Summary"))
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, ""))
	}
}

// terminalWidth returns the width of writer if it is a terminal.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
