package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdmath/internal/ui/pretty"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// DiffReporter prints golden trace differences as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter. It returns the number of traces that differ or
// are missing.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var changed, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.out, "%s: %s\n",
				r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		res := file.Golden
		switch {
		case res == nil:
		case res.Status == golden.StatusMissing:
			changed++
			fmt.Fprintf(r.out, "%s: %s\n\n",
				r.styles.FilePath.Render(displayPath(res.Path, r.opts.WorkingDir)),
				r.styles.Failure.Render("no recorded trace"),
			)
		case res.Diff.HasChanges():
			changed++
			additions += res.Diff.Additions
			deletions += res.Diff.Deletions
			r.writeDiff(res.Diff)
		}
	}

	if changed > 0 && r.opts.ShowSummary {
		r.writeSummary(changed, additions, deletions)
	}

	return changed, nil
}

func (r *DiffReporter) writeDiff(diff *golden.Diff) {
	path := displayPath(diff.Path, r.opts.WorkingDir)

	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(r.out, r.styles.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.WantStart, hunk.WantCount, hunk.GotStart, hunk.GotCount)))
		for _, line := range hunk.Lines {
			switch line.Kind {
			case golden.LineAdd:
				fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+"+line.Content))
			case golden.LineRemove:
				fmt.Fprintln(r.out, r.styles.DiffRemove.Render("-"+line.Content))
			case golden.LineContext:
				fmt.Fprintln(r.out, r.styles.DiffContext.Render(" "+line.Content))
			}
		}
	}

	fmt.Fprintln(r.out)
}

func (r *DiffReporter) writeSummary(traces, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", traces, plural(traces, "trace", "traces"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// displayPath makes path relative to workDir, or to the current directory
// when workDir is empty. Paths that would climb more than two levels fall
// back to the base name.
func displayPath(path, workDir string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		workDir = cwd
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
