package parser

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// maxMarkerIndent is how many spaces may precede a block quote marker.
const maxMarkerIndent = 3

// containers tracks block quote markers per line and the currently open
// quote depth. It is the tokenizer's view of container structure.
type containers struct {
	markers [][]engine.Skip
	depth   int
}

func scanContainers(content []byte, lines []mdevent.LineInfo) *containers {
	c := &containers{markers: make([][]engine.Skip, len(lines))}
	for idx, line := range lines {
		c.markers[idx] = quoteMarkers(content, line.StartOffset, line.NewlineStart)
	}
	return c
}

// quoteMarkers returns the run of `>` markers at the start of a line, each
// with its leading spaces and one optional following space or tab.
func quoteMarkers(content []byte, start, end int) []engine.Skip {
	var skips []engine.Skip
	pos := start
	for {
		cur := pos
		for n := 0; n < maxMarkerIndent && cur < end && content[cur] == ' '; n++ {
			cur++
		}
		if cur >= end || content[cur] != '>' {
			return skips
		}
		cur++
		if cur < end && (content[cur] == ' ' || content[cur] == '\t') {
			cur++
		}
		skips = append(skips, engine.Skip{Type: mdevent.TypeBlockQuotePrefix, Start: pos, End: cur})
		pos = cur
	}
}

// line returns the markers of a 1-based line.
func (c *containers) line(line int) []engine.Skip {
	if line < 1 || line > len(c.markers) {
		return nil
	}
	return c.markers[line-1]
}

// Lazy reports whether the line has fewer markers than the open depth.
func (c *containers) Lazy(line int) bool {
	return len(c.line(line)) < c.depth
}

// Prefix returns the markers of the line that belong to open quotes.
func (c *containers) Prefix(line int) []engine.Skip {
	markers := c.line(line)
	return markers[:min(len(markers), c.depth)]
}
