package runner

import (
	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fsutil"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Info records the file state when it was read. The watcher uses it to
	// skip files that did not change.
	Info *fsutil.FileInfo

	// Snapshot is the parse trace. Nil if Error is set.
	Snapshot *mdevent.Snapshot

	// Diagnostics are the check findings, ordered by position.
	Diagnostics []check.Diagnostic

	// Fixed is the number of edits written back to the file.
	Fixed int

	// Golden is set when the run compares or updates trace files.
	Golden *golden.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesWithIssues counts files with at least one diagnostic.
	FilesWithIssues int

	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[config.Severity]int

	// MathBlocks and MathInline count math spans across all files.
	MathBlocks int
	MathInline int

	// FilesFixed and FixesApplied count files rewritten by fixes and the
	// edits written.
	FilesFixed   int
	FixesApplied int

	GoldenMismatched int
	GoldenMissing    int
	GoldenUpdated    int
}

// Result is the overall runner result.
type Result struct {
	// Files is ordered by path.
	Files []FileOutcome

	Stats Stats

	// Errors holds failures not tied to a single file.
	Errors []error
}

// HasFailures reports whether the run should exit non-zero: an
// error-severity diagnostic, an unreadable file or a golden trace that does
// not match.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0 ||
		r.Stats.FilesErrored > 0 ||
		r.Stats.GoldenMismatched > 0 ||
		r.Stats.GoldenMissing > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[config.Severity]int),
	}
}

// accumulate appends outcome and folds it into the stats.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++

	if outcome.Snapshot != nil {
		r.Stats.MathBlocks += outcome.Snapshot.Count(mdevent.TypeMathFlow)
		r.Stats.MathInline += outcome.Snapshot.Count(mdevent.TypeMathText)
	}

	if outcome.Fixed > 0 {
		r.Stats.FilesFixed++
		r.Stats.FixesApplied += outcome.Fixed
	}

	if n := len(outcome.Diagnostics); n > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.DiagnosticsTotal += n
	}
	for _, diag := range outcome.Diagnostics {
		r.Stats.DiagnosticsBySeverity[diag.Severity]++
	}

	if outcome.Golden != nil {
		switch outcome.Golden.Status {
		case golden.StatusMismatch:
			r.Stats.GoldenMismatched++
		case golden.StatusMissing:
			r.Stats.GoldenMissing++
		case golden.StatusUpdated:
			r.Stats.GoldenUpdated++
		case golden.StatusMatch:
		}
	}
}
