package analysis

// SortField specifies how to sort the grouped views.
type SortField string

const (
	// SortByCount sorts by issue count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by path or check ID, ascending.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts errors first, then warnings.
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	// IncludeDiagnostics includes the flat diagnostics list.
	IncludeDiagnostics bool

	// IncludeByFile includes the per-file view.
	IncludeByFile bool

	// IncludeByCheck includes the per-check view.
	IncludeByCheck bool

	// SortBy orders ByFile and ByCheck.
	SortBy SortField

	// SortDesc sorts counts highest first.
	SortDesc bool

	// WorkingDir makes paths relative. Empty keeps them as they are.
	WorkingDir string
}

// DefaultOptions returns Options with every view enabled, largest counts
// first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByCheck:     true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}
}
