package analysis

import "time"

// Report holds the views every renderer draws from. Analyze computes it once
// per run.
type Report struct {
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByCheck     []CheckAnalysis   `json:"byCheck,omitempty"`

	// Golden lists trace files that did not match or were written.
	Golden []GoldenEntry `json:"golden,omitempty"`

	// Errors lists files that could not be processed.
	Errors []FileError `json:"errors,omitempty"`

	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// DiagnosticEntry is one diagnostic with a display path.
type DiagnosticEntry struct {
	FilePath    string `json:"filePath"`
	CheckID     string `json:"checkId"`
	CheckName   string `json:"checkName"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Suggestion  string `json:"suggestion,omitempty"`
	Fixable     bool   `json:"fixable,omitempty"`
}

// GoldenEntry is the golden trace state of one file.
type GoldenEntry struct {
	FilePath  string `json:"filePath"`
	TracePath string `json:"tracePath"`
	Status    string `json:"status"`
	Additions int    `json:"additions,omitempty"`
	Deletions int    `json:"deletions,omitempty"`
}

// FileError is a file that failed to read or parse.
type FileError struct {
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

// Counts tallies diagnostics by severity.
type Counts struct {
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

func (c *Counts) add(severity string) {
	c.Issues++
	switch severity {
	case severityError:
		c.Errors++
	case severityWarning:
		c.Warnings++
	case severityInfo:
		c.Infos++
	}
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesErrored    int `json:"filesErrored"`
	Counts

	MathBlocks int `json:"mathBlocks"`
	MathInline int `json:"mathInline"`

	GoldenMismatched int `json:"goldenMismatched"`
	GoldenMissing    int `json:"goldenMissing"`
	GoldenUpdated    int `json:"goldenUpdated"`

	FixesApplied int `json:"fixesApplied,omitempty"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis aggregates one file.
type FileAnalysis struct {
	Path string `json:"path"`
	Counts

	MathBlocks int      `json:"mathBlocks"`
	MathInline int      `json:"mathInline"`
	Checks     []string `json:"checks,omitempty"`
}

// CheckAnalysis aggregates one check.
type CheckAnalysis struct {
	CheckID   string `json:"checkId"`
	CheckName string `json:"checkName"`
	Counts

	Files []string `json:"files,omitempty"`
}
