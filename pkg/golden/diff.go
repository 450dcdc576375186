package golden

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff is a line diff from the recorded trace to the current one.
type Diff struct {
	// Path is the golden file the diff applies to.
	Path string

	Hunks []Hunk

	// Additions and Deletions count changed lines across all hunks.
	Additions int
	Deletions int
}

// Hunk is a run of changes with surrounding context.
type Hunk struct {
	// WantStart and GotStart are 1-based line numbers.
	WantStart int
	WantCount int
	GotStart  int
	GotCount  int

	Lines []Line
}

// Line is one line of a hunk.
type Line struct {
	Kind    LineKind
	Content string
}

// LineKind marks a line as unchanged, added or removed.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// contextLines is how many unchanged lines surround each change.
const contextLines = 3

// LineDiff compares want and got line by line. It returns nil when they are
// equal.
func LineDiff(path string, want, got string) *Diff {
	if want == got {
		return nil
	}

	dmp := diffmatchpatch.New()
	wantChars, gotChars, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(wantChars, gotChars, false), lines)

	var ops []Line
	for _, d := range diffs {
		kind := LineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = LineAdd
		case diffmatchpatch.DiffDelete:
			kind = LineRemove
		case diffmatchpatch.DiffEqual:
		}
		for _, text := range splitLines(d.Text) {
			ops = append(ops, Line{Kind: kind, Content: text})
		}
	}

	diff := &Diff{Path: path, Hunks: hunks(ops)}
	for _, hunk := range diff.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				diff.Additions++
			case LineRemove:
				diff.Deletions++
			case LineContext:
			}
		}
	}
	return diff
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- %s\n", d.Path)
	fmt.Fprintf(&builder, "+++ %s (current)\n", d.Path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.WantStart, hunk.WantCount, hunk.GotStart, hunk.GotCount)
		for _, line := range hunk.Lines {
			builder.WriteString(line.Kind.prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func (k LineKind) prefix() string {
	switch k {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	case LineContext:
	}
	return " "
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for idx, line := range lines {
		lines[idx] = strings.TrimSuffix(line, "\n")
	}
	return lines
}

// hunks groups ops into hunks. Changes separated by no more than twice the
// context share a hunk.
func hunks(ops []Line) []Hunk {
	var out []Hunk
	start := -1
	end := 0

	flush := func() {
		if start < 0 {
			return
		}
		out = append(out, buildHunk(ops, max(start-contextLines, 0), min(end+contextLines, len(ops))))
		start = -1
	}

	for idx, op := range ops {
		if op.Kind == LineContext {
			continue
		}
		if start >= 0 && idx-end > contextLines*2 {
			flush()
		}
		if start < 0 {
			start = idx
		}
		end = idx + 1
	}
	flush()
	return out
}

// buildHunk builds the hunk covering ops[from:to].
func buildHunk(ops []Line, from, to int) Hunk {
	hunk := Hunk{WantStart: 1, GotStart: 1}
	for _, op := range ops[:from] {
		if op.Kind != LineAdd {
			hunk.WantStart++
		}
		if op.Kind != LineRemove {
			hunk.GotStart++
		}
	}

	hunk.Lines = ops[from:to]
	for _, op := range hunk.Lines {
		if op.Kind != LineAdd {
			hunk.WantCount++
		}
		if op.Kind != LineRemove {
			hunk.GotCount++
		}
	}
	return hunk
}
