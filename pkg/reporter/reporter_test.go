package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/analysis"
	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/parser"
	"github.com/yaklabco/mdmath/pkg/reporter"
	"github.com/yaklabco/mdmath/pkg/runner"
)

const sampleDoc = "# Notes\n\nsee \\(x + y\n\n\\[\n\\]\n"

// sampleResult parses sampleDoc as dir/doc.md and checks it. The file has an
// unclosed inline opener (warning) and an empty block (info).
func sampleResult(t *testing.T, dir string) *runner.Result {
	t.Helper()

	path := filepath.Join(dir, "doc.md")
	snapshot, err := parser.New(parser.Options{}).Parse(context.Background(), path, []byte(sampleDoc))
	require.NoError(t, err)

	diags := check.Run(snapshot, config.NewConfig())
	require.Len(t, diags, 2)

	return &runner.Result{
		Files: []runner.FileOutcome{{
			Path:        path,
			Snapshot:    snapshot,
			Diagnostics: diags,
		}},
		Stats: runner.Stats{
			FilesDiscovered:  1,
			FilesProcessed:   1,
			FilesWithIssues:  1,
			DiagnosticsTotal: 2,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityWarning: 1,
				config.SeverityInfo:    1,
			},
			MathBlocks: 1,
		},
	}
}

func newReporter(t *testing.T, buf *bytes.Buffer, format reporter.Format, dir string) reporter.Reporter {
	t.Helper()

	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = dir

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "table", want: reporter.FormatTable},
		{input: "json", want: reporter.FormatJSON},
		{input: "sarif", want: reporter.FormatSARIF},
		{input: "diff", want: reporter.FormatDiff},
		{input: "summary", want: reporter.FormatSummary},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "text, table, json, sarif, diff, summary")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, format := range reporter.Formats() {
		assert.True(t, format.IsValid(), format)
	}
	assert.False(t, reporter.Format("").IsValid())
	assert.False(t, reporter.Format("xml").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range append(reporter.Formats(), "") {
		rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format, Color: "never"})
		require.NoError(t, err, format)
		assert.NotNil(t, rep)
	}

	rep, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
	assert.Nil(t, rep)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := reporter.DefaultOptions()
	assert.NotNil(t, opts.Writer)
	assert.NotNil(t, opts.ErrorWriter)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.False(t, opts.Compact)
	assert.Equal(t, config.SummaryOrderChecks, opts.SummaryOrder)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		count, err := newReporter(t, &buf, reporter.FormatText, "").Report(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Contains(t, buf.String(), "No files to check")
	})

	t.Run("diagnostics with context", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var buf bytes.Buffer
		count, err := newReporter(t, &buf, reporter.FormatText, dir).Report(context.Background(), sampleResult(t, dir))
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		out := buf.String()
		assert.Contains(t, out, "doc.md (2 issues)")
		assert.Contains(t, out, "doc.md:3:5")
		assert.Contains(t, out, "(unclosed-inline-math)")
		assert.Contains(t, out, "(empty-math)")
		assert.Contains(t, out, "        see \\(x + y\n")
		assert.Contains(t, out, "2 issues (1 warning, 1 info) in 1 file, 1 math block, 0 inline")
		assert.NotContains(t, out, dir)
	})

	t.Run("file errors and traces", func(t *testing.T) {
		t.Parallel()

		result := &runner.Result{Files: []runner.FileOutcome{
			{Path: "bad.md", Error: errors.New("permission denied")},
			{Path: "a.md", Golden: &golden.Result{
				Path:   "a.md.trace",
				Status: golden.StatusMismatch,
				Diff:   golden.LineDiff("a.md.trace", "x\n", "y\n"),
			}},
			{Path: "b.md", Golden: &golden.Result{Path: "b.md.trace", Status: golden.StatusMissing}},
			{Path: "c.md", Golden: &golden.Result{Path: "c.md.trace", Status: golden.StatusUpdated}},
			{Path: "d.md", Golden: &golden.Result{Path: "d.md.trace", Status: golden.StatusMatch}},
		}}

		var buf bytes.Buffer
		_, err := newReporter(t, &buf, reporter.FormatText, "").Report(context.Background(), result)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "bad.md: error: permission denied")
		assert.Contains(t, out, "a.md.trace: trace differs (+1 -1")
		assert.Contains(t, out, "b.md.trace: trace missing")
		assert.Contains(t, out, "c.md.trace: trace updated")
		assert.NotContains(t, out, "d.md.trace")
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	count, err := newReporter(t, &buf, reporter.FormatJSON, dir).Report(context.Background(), sampleResult(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, analysis.ReportVersion, report.Version)
	require.Len(t, report.Diagnostics, 2)
	assert.Equal(t, "doc.md", report.Diagnostics[0].FilePath)
	assert.Equal(t, "MM003", report.Diagnostics[0].CheckID)
	assert.Equal(t, 2, report.Totals.Issues)
	assert.Equal(t, 1, report.Totals.MathBlocks)
	assert.Contains(t, buf.String(), `"checkName": "unclosed-inline-math"`)
	assert.Contains(t, buf.String(), `\\(`)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	opts := reporter.Options{Writer: &buf, Format: reporter.FormatJSON, Compact: true}
	rep, err := reporter.New(opts)
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), sampleResult(t, dir))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 1)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := sampleResult(t, dir)
	result.Files = append(result.Files, runner.FileOutcome{
		Path:  filepath.Join(dir, "gone.md"),
		Error: errors.New("file not found"),
	})

	var buf bytes.Buffer
	count, err := newReporter(t, &buf, reporter.FormatSARIF, dir).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)

	run := out.Runs[0]
	assert.Equal(t, "mdmath", run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, len(check.All()))

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, "MM003", first.RuleID)
	assert.Equal(t, "MM003", run.Tool.Driver.Rules[first.RuleIndex].ID)
	assert.Equal(t, "warning", first.Level)
	assert.Equal(t, "doc.md", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, first.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, "note", run.Results[1].Level)

	require.Len(t, run.Invocations, 1)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
	require.Len(t, run.Invocations[0].Notifications, 1)
	assert.Equal(t, "file not found", run.Invocations[0].Notifications[0].Message.Text)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		{Path: "a.md", Golden: &golden.Result{
			Path:   "a.md.trace",
			Status: golden.StatusMismatch,
			Diff:   golden.LineDiff("a.md.trace", "a\nb\nc\n", "a\nx\nc\n"),
		}},
		{Path: "b.md", Golden: &golden.Result{Path: "b.md.trace", Status: golden.StatusMissing}},
		{Path: "c.md", Golden: &golden.Result{Path: "c.md.trace", Status: golden.StatusMatch}},
		{Path: "d.md"},
	}}

	var buf bytes.Buffer
	count, err := newReporter(t, &buf, reporter.FormatDiff, "").Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	want := "diff --git a/a.md.trace b/a.md.trace\n" +
		"--- a/a.md.trace\n" +
		"+++ b/a.md.trace\n" +
		"@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+x\n" +
		" c\n" +
		"\n" +
		"b.md.trace: no recorded trace\n" +
		"\n" +
		"2 traces changed, 1 insertion(+), 1 deletion(-)\n"
	assert.Equal(t, want, buf.String())
}

func TestDiffReporter_NothingToShow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := newReporter(t, &buf, reporter.FormatDiff, "")

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	dir := t.TempDir()
	count, err = rep.Report(context.Background(), sampleResult(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, buf.String())
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	count, err := newReporter(t, &buf, reporter.FormatTable, dir).Report(context.Background(), sampleResult(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "CHECK")
	assert.Contains(t, out, "unclosed-inline-math")
	assert.Contains(t, out, "1 file checked | 1 warning | 1 info | 1 math")
}

func TestTableReporter_PerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"
	opts.WorkingDir = dir
	opts.PerFile = true

	_, err := reporter.NewTableReporter(opts).Report(context.Background(), sampleResult(t, dir))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\ndoc.md\n")
	assert.Contains(t, out, " 1 warning | 1 info\n")
	assert.Contains(t, out, "Overall Summary")
}

func TestTableReporter_Clean(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.md"}},
		Stats: runner.Stats{FilesProcessed: 1},
	}
	count, err := newReporter(t, &buf, reporter.FormatTable, "").Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "All files passed!")
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("checks first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		count, err := newReporter(t, &buf, reporter.FormatSummary, dir).Report(context.Background(), sampleResult(t, dir))
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		out := buf.String()
		checks := strings.Index(out, "Checks Summary")
		files := strings.Index(out, "Files Summary")
		require.NotEqual(t, -1, checks)
		require.NotEqual(t, -1, files)
		assert.Less(t, checks, files)
		assert.Contains(t, out, "MM004")
		assert.Contains(t, out, "Total: 2 issues (1 warning, 1 info) in 1 file")
	})

	t.Run("files first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		opts := reporter.DefaultOptions()
		opts.Writer = &buf
		opts.Color = "never"
		opts.WorkingDir = dir
		opts.SummaryOrder = config.SummaryOrderFiles

		require.NoError(t, reporter.NewSummaryRenderer(opts).Render(context.Background(),
			analysis.Analyze(sampleResult(t, dir), analysis.DefaultOptions())))
		out := buf.String()
		assert.Less(t, strings.Index(out, "Files Summary"), strings.Index(out, "Checks Summary"))
	})

	t.Run("no issues", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := newReporter(t, &buf, reporter.FormatSummary, "").Report(context.Background(),
			&runner.Result{Files: []runner.FileOutcome{{Path: "a.md"}}})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No issues found (0 math blocks, 0 inline)")
	})
}
