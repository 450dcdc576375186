package mdevent

import "fmt"

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Point is a cursor position: 1-based line and column, 0-based byte offset.
// Columns count bytes, not runes.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// IsValid returns true if this position has valid (positive) values.
func (p Point) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// Before reports whether p lies strictly before other in the source.
func (p Point) Before(other Point) bool {
	return p.Offset < other.Offset
}

// String formats the point as line:column.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
