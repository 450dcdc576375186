package math

import "github.com/yaklabco/mdmath/pkg/mdevent"

// ResolveText normalizes the events of one inline math construct: the
// opening sequence, leaf children, the closing sequence, all wrapped in
// mathText.
//
// When both the first and the last child are a space or a line ending and
// data lies between them, those two children become padding. Then each
// maximal run of adjacent space and data children is merged into one span;
// line endings, padding and container prefixes split runs. A run that holds
// data becomes data, a run of spaces stays a space, so resolving twice gives
// the same result.
func ResolveText(events []mdevent.Event) []mdevent.Event {
	if len(events) < 6 {
		return events
	}

	// head is the enter of the first child, tail the exit of the last.
	head, tail := 3, len(events)-4

	if head < tail && isSpacing(events[head].Token) && isSpacing(events[tail].Token) {
		for idx := head + 2; idx < tail-1; idx += 2 {
			if events[idx].Token.Type == mdevent.TypeMathTextData {
				events[head].Token.Type = mdevent.TypeMathTextPadding
				events[tail].Token.Type = mdevent.TypeMathTextPadding
				head += 2
				tail -= 2
				break
			}
		}
	}

	out := make([]mdevent.Event, 0, len(events))
	out = append(out, events[:head]...)

	var run *mdevent.Token
	for idx := head; idx+1 <= tail; idx += 2 {
		tok := events[idx].Token
		if tok.Type != mdevent.TypeSpace && tok.Type != mdevent.TypeMathTextData {
			out = appendRun(out, run)
			run = nil
			out = append(out, events[idx], events[idx+1])
			continue
		}

		if run == nil {
			run = tok
			continue
		}
		run.End = tok.End
		if tok.Type == mdevent.TypeMathTextData {
			run.Type = mdevent.TypeMathTextData
		}
	}
	out = appendRun(out, run)

	return append(out, events[tail+1:]...)
}

func appendRun(events []mdevent.Event, run *mdevent.Token) []mdevent.Event {
	if run == nil {
		return events
	}
	return append(events, mdevent.EnterEvent(run), mdevent.ExitEvent(run))
}

func isSpacing(tok *mdevent.Token) bool {
	return tok.Type == mdevent.TypeSpace || tok.Type == mdevent.TypeLineEnding
}
