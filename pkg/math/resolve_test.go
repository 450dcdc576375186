package math_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/math"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// inlineEvents returns the events of each inline math span, enter to exit.
func inlineEvents(snapshot *mdevent.Snapshot) [][]mdevent.Event {
	var out [][]mdevent.Event
	for idx, ev := range snapshot.Events {
		if ev.Is(mdevent.Enter, mdevent.TypeMathText) {
			out = append(out, snapshot.Events[idx:mdevent.Closing(snapshot.Events, idx)+1])
		}
	}
	return out
}

// tester is what both *testing.T and *rapid.T provide.
type tester interface {
	require.TestingT
	Helper()
}

// assertResolveIdempotent checks that resolving already resolved inline math
// changes nothing.
func assertResolveIdempotent(t tester, snapshot *mdevent.Snapshot) {
	t.Helper()

	for _, events := range inlineEvents(snapshot) {
		again := math.ResolveText(cloneEvents(events))
		assert.Equal(t, flatten(events), flatten(again))
		require.NoError(t, mdevent.Validate(again))
	}
}

func TestResolveText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"\\(b\\)",
		"\\( a \\)",
		"\\(  a  b  \\)",
		"\\(  \\)",
		"\\(\na\n\\)",
		"\\(\n \n\\)",
		"\\( \na\n \\)",
		"\\(a\\b\\c\\)",
		"$$ a $$",
		"> \\( a\n> b \\)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			assertResolveIdempotent(t, parse(t, input, parser.Options{}))
		})
	}
}

func TestResolveText_MergesAroundPadding(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "\\(  a  b  \\)", parser.Options{})

	children := inlineChildren(snapshot)
	require.Len(t, children, 1)
	assert.Equal(t, []span{
		{mdevent.TypeMathTextPadding, " "},
		{mdevent.TypeMathTextData, " a  b "},
		{mdevent.TypeMathTextPadding, " "},
	}, children[0])
}

// A run of spaces with no data stays a space. Were it retyped to data, a
// second pass would find data between the two line endings and turn them
// into padding.
func TestResolveText_SpaceOnlyRunStaysSpace(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "\\(\n \n\\)", parser.Options{})

	children := inlineChildren(snapshot)
	require.Len(t, children, 1)
	assert.Equal(t, []span{
		{mdevent.TypeLineEnding, "\n"},
		{mdevent.TypeSpace, " "},
		{mdevent.TypeLineEnding, "\n"},
	}, children[0])
	assertResolveIdempotent(t, snapshot)
}

func TestResolveText_ShortInput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, math.ResolveText(nil))

	tok := &mdevent.Token{Type: mdevent.TypeMathText}
	events := []mdevent.Event{mdevent.EnterEvent(tok), mdevent.ExitEvent(tok)}
	assert.Equal(t, events, math.ResolveText(events))
}
