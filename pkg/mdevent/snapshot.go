// Package mdevent defines the parse trace produced by the mdmath tokenizers:
// points, labeled spans (tokens), enter/exit events, line metadata and the
// invariants every trace must satisfy.
package mdevent

// Snapshot is the complete result of parsing one Markdown file.
type Snapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Events is the committed parse trace.
	Events []Event
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewSnapshot creates a Snapshot with its line index built but no events.
func NewSnapshot(path string, content []byte) *Snapshot {
	return &Snapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// Count returns how many spans of the given type the trace contains.
func (s *Snapshot) Count(typ TokenType) int {
	count := 0
	for _, ev := range s.Events {
		if ev.Is(Enter, typ) {
			count++
		}
	}
	return count
}
