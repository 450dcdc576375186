package fix

import "bytes"

// ApplyEdits applies edits returned by Prepare to content and returns the
// new content. content is not modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply prepares edits and applies the ones that do not conflict. It returns
// the new content and the number of edits applied.
func Apply(content []byte, edits []TextEdit) ([]byte, int, error) {
	accepted, _, err := Prepare(edits, len(content))
	if err != nil {
		return nil, 0, err
	}
	return ApplyEdits(content, accepted), len(accepted), nil
}
