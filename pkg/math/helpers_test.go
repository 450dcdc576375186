package math_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// span is a token reduced to what tests compare.
type span struct {
	Type mdevent.TokenType
	Text string
}

func parse(t testing.TB, src string, opts parser.Options) *mdevent.Snapshot {
	t.Helper()

	snapshot, err := parser.New(opts).Parse(context.Background(), "test.md", []byte(src))
	require.NoError(t, err)
	return snapshot
}

// spansOf lists the spans of the given types in source order.
func spansOf(snapshot *mdevent.Snapshot, types ...mdevent.TokenType) []span {
	var out []span
	for _, ev := range snapshot.Events {
		if ev.Kind != mdevent.Enter || !slices.Contains(types, ev.Token.Type) {
			continue
		}
		out = append(out, span{Type: ev.Token.Type, Text: string(ev.Token.Text(snapshot.Content))})
	}
	return out
}

// first returns the first token of the given type, or nil.
func first(snapshot *mdevent.Snapshot, typ mdevent.TokenType) *mdevent.Token {
	for _, ev := range snapshot.Events {
		if ev.Is(mdevent.Enter, typ) {
			return ev.Token
		}
	}
	return nil
}

// inlineChildren returns the children of every inline math span, without the
// opening and closing sequences.
func inlineChildren(snapshot *mdevent.Snapshot) [][]span {
	var out [][]span
	for idx, ev := range snapshot.Events {
		if !ev.Is(mdevent.Enter, mdevent.TypeMathText) {
			continue
		}
		children := []span{}
		for _, pair := range mdevent.Children(snapshot.Events, idx) {
			tok := snapshot.Events[pair[0]].Token
			if tok.Type == mdevent.TypeMathTextSequence {
				continue
			}
			children = append(children, span{Type: tok.Type, Text: string(tok.Text(snapshot.Content))})
		}
		out = append(out, children)
	}
	return out
}

// cloneEvents copies events and their tokens, keeping enter and exit of one
// span pointing at the same copy.
func cloneEvents(events []mdevent.Event) []mdevent.Event {
	copies := make(map[*mdevent.Token]*mdevent.Token, len(events)/2)
	out := make([]mdevent.Event, len(events))
	for idx, ev := range events {
		tok, ok := copies[ev.Token]
		if !ok {
			dup := *ev.Token
			tok = &dup
			copies[ev.Token] = tok
		}
		out[idx] = mdevent.Event{Kind: ev.Kind, Token: tok}
	}
	return out
}

// flatEvent is an event with its token copied by value.
type flatEvent struct {
	Kind  mdevent.EventKind
	Token mdevent.Token
}

// flatten renders events as comparable values.
func flatten(events []mdevent.Event) []flatEvent {
	out := make([]flatEvent, len(events))
	for idx, ev := range events {
		out[idx] = flatEvent{Kind: ev.Kind, Token: *ev.Token}
	}
	return out
}

func boolPtr(v bool) *bool { return &v }
