package mdevent

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every error Validate returns.
var ErrMalformed = errors.New("malformed trace")

// Validate replays events against a stack and checks that every entered span
// is exited exactly once, in nesting order, and that no span ends before it
// starts or before a child ends.
func Validate(events []Event) error {
	var stack []*Token
	seen := make(map[*Token]struct{}, len(events)/2)

	for idx, ev := range events {
		if ev.Token == nil {
			return fmt.Errorf("%w: event %d has no token", ErrMalformed, idx)
		}

		switch ev.Kind {
		case Enter:
			if _, ok := seen[ev.Token]; ok {
				return fmt.Errorf("%w: event %d re-enters %s", ErrMalformed, idx, ev.Token.Type)
			}
			seen[ev.Token] = struct{}{}
			if len(stack) > 0 && ev.Token.Start.Before(stack[len(stack)-1].Start) {
				return fmt.Errorf("%w: event %d: %s starts before its parent", ErrMalformed, idx, ev.Token.Type)
			}
			stack = append(stack, ev.Token)
		case Exit:
			if len(stack) == 0 {
				return fmt.Errorf("%w: event %d exits %s with nothing open", ErrMalformed, idx, ev.Token.Type)
			}
			top := stack[len(stack)-1]
			if top != ev.Token {
				return fmt.Errorf("%w: event %d exits %s while %s is open", ErrMalformed, idx, ev.Token.Type, top.Type)
			}
			if ev.Token.End.Before(ev.Token.Start) {
				return fmt.Errorf("%w: event %d: %s ends before it starts", ErrMalformed, idx, ev.Token.Type)
			}
			stack = stack[:len(stack)-1]
		default:
			return fmt.Errorf("%w: event %d has kind %d", ErrMalformed, idx, ev.Kind)
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("%w: %s never exited", ErrMalformed, stack[len(stack)-1].Type)
	}

	return nil
}

// Leaves returns the spans that have no children, in source order.
func Leaves(events []Event) []*Token {
	var leaves []*Token
	for idx := 0; idx+1 < len(events); idx++ {
		if events[idx].Kind == Enter && events[idx+1].Kind == Exit && events[idx].Token == events[idx+1].Token {
			leaves = append(leaves, events[idx].Token)
		}
	}
	return leaves
}

// Covers reports whether leaves tile the byte range [start, end) exactly:
// contiguous, non-overlapping and without gaps. This is the round-trip
// property: concatenating their text reproduces the source.
func Covers(leaves []*Token, start, end int) bool {
	if len(leaves) == 0 {
		return start == end
	}

	if leaves[0].Start.Offset != start || leaves[len(leaves)-1].End.Offset != end {
		return false
	}

	for i := 1; i < len(leaves); i++ {
		if leaves[i].Start.Offset != leaves[i-1].End.Offset {
			return false
		}
	}

	return true
}
