// Package analysis folds a run's outcomes into the per-file, per-check and
// flat views the reporters render.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// relativePath returns path relative to workDir, or path unchanged.
func relativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

type collector struct {
	files      map[string]*FileAnalysis
	checks     map[string]*CheckAnalysis
	fileChecks map[string]map[string]bool
	checkFiles map[string]map[string]bool
}

func newCollector() *collector {
	return &collector{
		files:      make(map[string]*FileAnalysis),
		checks:     make(map[string]*CheckAnalysis),
		fileChecks: make(map[string]map[string]bool),
		checkFiles: make(map[string]map[string]bool),
	}
}

func (c *collector) file(path string) *FileAnalysis {
	fa, ok := c.files[path]
	if !ok {
		fa = &FileAnalysis{Path: path}
		c.files[path] = fa
		c.fileChecks[path] = make(map[string]bool)
	}
	return fa
}

func (c *collector) check(id, name string) *CheckAnalysis {
	ca, ok := c.checks[id]
	if !ok {
		ca = &CheckAnalysis{CheckID: id, CheckName: name}
		c.checks[id] = ca
		c.checkFiles[id] = make(map[string]bool)
	}
	return ca
}

// Analyze builds a Report from a run result in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	col := newCollector()
	for _, outcome := range result.Files {
		report.Totals.Files++
		path := relativePath(outcome.Path, opts.WorkingDir)

		if outcome.Error != nil {
			report.Totals.FilesErrored++
			report.Errors = append(report.Errors, FileError{FilePath: path, Message: outcome.Error.Error()})
			continue
		}

		fa := col.file(path)
		if outcome.Snapshot != nil {
			fa.MathBlocks = outcome.Snapshot.Count(mdevent.TypeMathFlow)
			fa.MathInline = outcome.Snapshot.Count(mdevent.TypeMathText)
			report.Totals.MathBlocks += fa.MathBlocks
			report.Totals.MathInline += fa.MathInline
		}
		if len(outcome.Diagnostics) > 0 {
			report.Totals.FilesWithIssues++
		}
		report.Totals.FixesApplied += outcome.Fixed

		for _, diag := range outcome.Diagnostics {
			severity := string(diag.Severity)
			if severity == "" {
				severity = severityWarning
			}

			report.Totals.add(severity)
			fa.add(severity)
			col.fileChecks[path][diag.CheckID] = true

			ca := col.check(diag.CheckID, diag.CheckName)
			ca.add(severity)
			col.checkFiles[diag.CheckID][path] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, DiagnosticEntry{
					FilePath:    path,
					CheckID:     diag.CheckID,
					CheckName:   diag.CheckName,
					Severity:    severity,
					Message:     diag.Message,
					StartLine:   diag.StartLine,
					StartColumn: diag.StartColumn,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
					Suggestion:  diag.Suggestion,
					Fixable:     diag.Fixable(),
				})
			}
		}

		addGolden(report, path, outcome.Golden, opts.WorkingDir)
	}

	if opts.IncludeByCheck {
		report.ByCheck = col.byCheck(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = col.byFile(opts)
	}
	return report
}

// addGolden records every golden result except a plain match.
func addGolden(report *Report, path string, res *golden.Result, workDir string) {
	if res == nil {
		return
	}
	switch res.Status {
	case golden.StatusMatch:
		return
	case golden.StatusMismatch:
		report.Totals.GoldenMismatched++
	case golden.StatusMissing:
		report.Totals.GoldenMissing++
	case golden.StatusUpdated:
		report.Totals.GoldenUpdated++
	}

	entry := GoldenEntry{
		FilePath:  path,
		TracePath: relativePath(res.Path, workDir),
		Status:    res.Status.String(),
	}
	if res.Diff != nil {
		entry.Additions = res.Diff.Additions
		entry.Deletions = res.Diff.Deletions
	}
	report.Golden = append(report.Golden, entry)
}

func (c *collector) byCheck(opts Options) []CheckAnalysis {
	out := make([]CheckAnalysis, 0, len(c.checks))
	for id, ca := range c.checks {
		for f := range c.checkFiles[id] {
			ca.Files = append(ca.Files, f)
		}
		slices.Sort(ca.Files)
		out = append(out, *ca)
	}
	sortBy(out, opts, func(ca CheckAnalysis) (string, Counts) { return ca.CheckID, ca.Counts })
	return out
}

// byFile lists files with at least one diagnostic.
func (c *collector) byFile(opts Options) []FileAnalysis {
	var out []FileAnalysis
	for path, fa := range c.files {
		if fa.Issues == 0 {
			continue
		}
		for id := range c.fileChecks[path] {
			fa.Checks = append(fa.Checks, id)
		}
		slices.Sort(fa.Checks)
		out = append(out, *fa)
	}
	sortBy(out, opts, func(fa FileAnalysis) (string, Counts) { return fa.Path, fa.Counts })
	return out
}

// sortBy orders a view. Ties fall back to the key so output is stable.
func sortBy[T any](items []T, opts Options, key func(T) (string, Counts)) {
	slices.SortFunc(items, func(left, right T) int {
		leftKey, lc := key(left)
		rightKey, rc := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
		case SortBySeverity:
			result = cmp.Or(
				cmp.Compare(rc.Errors, lc.Errors),
				cmp.Compare(rc.Warnings, lc.Warnings),
				cmp.Compare(rc.Issues, lc.Issues),
			)
		default:
			result = cmp.Compare(lc.Issues, rc.Issues)
			if opts.SortDesc {
				result = -result
			}
		}
		return cmp.Or(result, cmp.Compare(leftKey, rightKey))
	})
}
