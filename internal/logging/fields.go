package logging

// Field names for structured logging.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run settings.
	FieldJobs   = "jobs"
	FieldFormat = "format"
	FieldGolden = "golden"
	FieldUpdate = "update"

	// Run statistics.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldMathBlocks       = "math_blocks"
	FieldMathInline       = "math_inline"
	FieldDuration         = "duration"

	// Watcher events.
	FieldEvent = "event"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Check metadata.
	FieldID          = "id"
	FieldName        = "name"
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"
)
