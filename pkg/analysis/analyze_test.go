package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/runner"
)

func diag(id, name string, severity config.Severity) check.Diagnostic {
	return check.Diagnostic{CheckID: id, CheckName: name, Severity: severity, StartLine: 1, StartColumn: 1}
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/work/a.md",
				Diagnostics: []check.Diagnostic{
					diag("MM001", "unclosed-math-block", config.SeverityError),
					diag("MM004", "empty-math", config.SeverityInfo),
					diag("MM004", "empty-math", config.SeverityInfo),
				},
			},
			{
				Path: "/work/b.md",
				Diagnostics: []check.Diagnostic{
					diag("MM003", "unclosed-inline-math", config.SeverityWarning),
				},
			},
			{Path: "/work/c.md"},
		},
	}
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())
	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Zero(t, report.Totals.Issues)
	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByCheck)

	assert.NotNil(t, Analyze(nil, DefaultOptions()))
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	assert.Equal(t, 3, report.Totals.Files)
	assert.Equal(t, 2, report.Totals.FilesWithIssues)
	assert.Equal(t, 4, report.Totals.Issues)
	assert.Equal(t, 1, report.Totals.Errors)
	assert.Equal(t, 1, report.Totals.Warnings)
	assert.Equal(t, 2, report.Totals.Infos)
	assert.True(t, report.Totals.HasIssues())
	assert.True(t, report.Totals.HasErrors())
	assert.Len(t, report.Diagnostics, 4)
}

func TestAnalyze_ByCheck(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())
	require.Len(t, report.ByCheck, 3)

	top := report.ByCheck[0]
	assert.Equal(t, "MM004", top.CheckID)
	assert.Equal(t, "empty-math", top.CheckName)
	assert.Equal(t, 2, top.Issues)
	assert.Equal(t, 2, top.Infos)
	assert.Equal(t, []string{"/work/a.md"}, top.Files)

	// Equal counts fall back to the ID.
	assert.Equal(t, "MM001", report.ByCheck[1].CheckID)
	assert.Equal(t, "MM003", report.ByCheck[2].CheckID)
}

func TestAnalyze_ByFile(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = "/work"
	report := Analyze(sampleResult(), opts)

	require.Len(t, report.ByFile, 2, "files without issues are left out")
	assert.Equal(t, "a.md", report.ByFile[0].Path)
	assert.Equal(t, []string{"MM001", "MM004"}, report.ByFile[0].Checks)
	assert.Equal(t, "b.md", report.ByFile[1].Path)
	assert.Equal(t, "a.md", report.Diagnostics[0].FilePath)
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sortBy SortField
		desc   bool
		want   []string
	}{
		{"count descending", SortByCount, true, []string{"/work/a.md", "/work/b.md"}},
		{"count ascending", SortByCount, false, []string{"/work/b.md", "/work/a.md"}},
		{"alpha", SortByAlpha, true, []string{"/work/a.md", "/work/b.md"}},
		{"severity", SortBySeverity, false, []string{"/work/a.md", "/work/b.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy = tt.sortBy
			opts.SortDesc = tt.desc

			var got []string
			for _, fa := range Analyze(sampleResult(), opts).ByFile {
				got = append(got, fa.Path)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_ViewsDisabled(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{})
	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByCheck)
	assert.Equal(t, 4, report.Totals.Issues)
}

func TestAnalyze_MathCountsErrorsAndGolden(t *testing.T) {
	t.Parallel()

	flow := &mdevent.Token{Type: mdevent.TypeMathFlow}
	text := &mdevent.Token{Type: mdevent.TypeMathText}
	snapshot := mdevent.NewSnapshot("a.md", nil)
	snapshot.Events = []mdevent.Event{
		mdevent.EnterEvent(flow), mdevent.ExitEvent(flow),
		mdevent.EnterEvent(text), mdevent.ExitEvent(text),
		mdevent.EnterEvent(text), mdevent.ExitEvent(text),
	}

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:     "a.md",
				Snapshot: snapshot,
				Golden: &golden.Result{
					Path:   "a.md.trace",
					Status: golden.StatusMismatch,
					Diff:   &golden.Diff{Additions: 2, Deletions: 1},
				},
			},
			{Path: "b.md", Golden: &golden.Result{Path: "b.md.trace", Status: golden.StatusMatch}},
			{Path: "c.md", Error: errors.New("permission denied")},
		},
	}

	report := Analyze(result, DefaultOptions())

	assert.Equal(t, 1, report.Totals.MathBlocks)
	assert.Equal(t, 2, report.Totals.MathInline)
	assert.Equal(t, 1, report.Totals.FilesErrored)
	assert.Equal(t, []FileError{{FilePath: "c.md", Message: "permission denied"}}, report.Errors)

	assert.Equal(t, 1, report.Totals.GoldenMismatched)
	require.Len(t, report.Golden, 1)
	assert.Equal(t, GoldenEntry{
		FilePath:  "a.md",
		TracePath: "a.md.trace",
		Status:    "mismatch",
		Additions: 2,
		Deletions: 1,
	}, report.Golden[0])
}

func TestAnalyze_DefaultSeverity(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.md", Diagnostics: []check.Diagnostic{diag("MM005", "x", "")}}},
	}
	report := Analyze(result, DefaultOptions())
	assert.Equal(t, 1, report.Totals.Warnings)
	assert.Equal(t, "warning", report.Diagnostics[0].Severity)
}
