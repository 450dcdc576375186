package pretty

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/runner"
)

func tableResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "a.md",
				Diagnostics: []check.Diagnostic{
					{CheckName: "unclosed-math-block", Message: "math block is never closed", Severity: config.SeverityError, StartLine: 3, StartColumn: 1},
					{CheckName: "empty-math", Message: "math is empty", Severity: config.SeverityInfo, StartLine: 9, StartColumn: 4},
				},
			},
			{Path: "clean.md"},
			{Path: "broken.md", Error: errors.New("boom")},
			{
				Path: "b.md",
				Diagnostics: []check.Diagnostic{
					{CheckName: "unclosed-inline-math", Message: "inline math is never closed", Severity: config.SeverityWarning, StartLine: 1, StartColumn: 7},
				},
			},
		},
		Stats: runner.Stats{
			FilesProcessed: 3,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityError:   1,
				config.SeverityWarning: 1,
				config.SeverityInfo:    1,
			},
			MathBlocks: 2,
			MathInline: 1,
		},
	}
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	formatter := NewTableFormatter(NewStyles(false), false, 0)
	out := formatter.FormatTable(tableResult())

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "CHECK")
	assert.True(t, strings.HasPrefix(lines[1], "==="))
	assert.Contains(t, lines[2], "a.md")
	assert.Contains(t, lines[2], "3:1")
	assert.Contains(t, lines[2], "unclosed-math-block")
	assert.Contains(t, lines[3], "empty-math")
	assert.True(t, strings.HasPrefix(lines[4], "---"))
	assert.Contains(t, lines[5], "b.md")
	assert.True(t, strings.HasPrefix(lines[6], "==="))
	assert.Contains(t, lines[7], "Legend")
	assert.NotContains(t, out, "clean.md")
	assert.NotContains(t, out, "broken.md")
}

func TestFormatTable_Empty(t *testing.T) {
	t.Parallel()

	formatter := NewTableFormatter(NewStyles(false), false, 80)
	assert.Empty(t, formatter.FormatTable(nil))
	assert.Empty(t, formatter.FormatTable(&runner.Result{Files: []runner.FileOutcome{{Path: "x.md"}}}))
}

func TestFormatFileTable(t *testing.T) {
	t.Parallel()

	formatter := NewTableFormatter(NewStyles(false), false, 80)
	out := formatter.FormatFileTable(tableResult().Files[0])

	assert.NotContains(t, out, "FILE")
	assert.Contains(t, out, "LOC")
	assert.Contains(t, out, "9:4")
	assert.Contains(t, out, " 1 error | 1 info\n")
	assert.Empty(t, formatter.FormatFileTable(runner.FileOutcome{Path: "clean.md"}))
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := NewTableFormatter(NewStyles(false), false, 80)
	got := formatter.FormatTableSummary(tableResult().Stats, "12ms")
	assert.Equal(t, " 3 files checked | 1 error | 1 warning | 1 info | 3 math | 12ms", got)
}

func TestFitWidths_Narrow(t *testing.T) {
	t.Parallel()

	formatter := NewTableFormatter(NewStyles(false), false, 60)
	rows := []TableRow{{
		File:     strings.Repeat("d/", 30) + "x.md",
		Location: "1:1",
		Message:  strings.Repeat("m", 80),
		Check:    "empty-math",
	}}

	widths := formatter.fitWidths(rows, true)
	assert.Equal(t, minMessageWidth, widths.message)
	assert.Equal(t, minFileWidth, widths.file)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdefgh", 5))
	assert.Equal(t, "ab", truncateString("abcdefgh", 2))
	assert.Equal(t, ".../x.md", truncateFilePath("some/dir/x.md", 8))
	assert.Equal(t, "md", truncateFilePath("x.md", 2))
}
