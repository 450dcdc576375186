package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an edit outside the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ValidateEdits checks that every edit lies within content of length
// contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// sortEdits orders edits by start, then end offset.
func sortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})
}

// Prepare validates and sorts edits and drops those that overlap an earlier
// one. Edits sharing a start offset overlap, so only the first is kept. It
// returns the edits to apply and the edits that were dropped.
func Prepare(edits []TextEdit, contentLen int) (accepted, skipped []TextEdit, err error) {
	if len(edits) == 0 {
		return nil, nil, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, err
	}

	sorted := slices.Clone(edits)
	sortEdits(sorted)

	accepted = make([]TextEdit, 0, len(sorted))
	lastEnd := -1
	for _, edit := range sorted {
		if edit.StartOffset < lastEnd || (edit.StartOffset == lastEnd && len(accepted) > 0 &&
			accepted[len(accepted)-1].StartOffset == edit.StartOffset) {
			skipped = append(skipped, edit)
			continue
		}
		accepted = append(accepted, edit)
		lastEnd = edit.EndOffset
	}
	return accepted, skipped, nil
}
