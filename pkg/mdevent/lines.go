package mdevent

import "sort"

// BuildLines constructs line metadata from file content.
// LF, CRLF and a lone CR all end a line, matching how the tokenizer engine
// counts lines.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\n':
			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: idx,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		case '\r':
			end := idx + 1
			if end < len(content) && content[end] == '\n' {
				end++
			}
			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: idx,
				EndOffset:    end,
			})
			lineStart = end
			idx = end - 1
		}
	}

	// Last line (may be empty, may not have a trailing newline).
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the file.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (s *Snapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(s.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(s.Content) {
		lastLine := s.Lines[len(s.Lines)-1]
		return len(s.Lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})

	if lineIdx >= len(s.Lines) {
		lineIdx = len(s.Lines) - 1
	}

	lineInfo := s.Lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - lineInfo.StartOffset + 1
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (s *Snapshot) LineContent(line int) []byte {
	if line < 1 || line > len(s.Lines) {
		return nil
	}

	lineInfo := s.Lines[line-1]
	return s.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}
