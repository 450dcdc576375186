// Package fix applies the text edits that checks attach to their
// diagnostics.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Insert returns an edit that inserts text at offset.
func Insert(offset int, text string) TextEdit {
	return TextEdit{StartOffset: offset, EndOffset: offset, NewText: text}
}

// Replace returns an edit that replaces [start, end) with text.
func Replace(start, end int, text string) TextEdit {
	return TextEdit{StartOffset: start, EndOffset: end, NewText: text}
}
