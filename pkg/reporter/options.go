package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mdmath/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	Format Format

	// Color is "auto" (default), "always" or "never".
	Color string

	// ShowContext prints the source line under each diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// GroupByFile groups diagnostics under a header per file.
	GroupByFile bool

	// Compact minifies JSON and SARIF output.
	Compact bool

	// PerFile prints one table per file (table format only).
	PerFile bool

	// SummaryOrder controls the order of tables in summary output.
	SummaryOrder config.SummaryOrder

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string

	// ToolVersion is reported in SARIF output.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		ErrorWriter:  os.Stderr,
		Format:       FormatText,
		Color:        "auto",
		ShowContext:  true,
		ShowSummary:  true,
		GroupByFile:  true,
		SummaryOrder: config.SummaryOrderChecks,
		ToolVersion:  "dev",
	}
}
