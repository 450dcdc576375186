package math_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

func TestFlowDollar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		values []string
		meta   []string
	}{
		{name: "fenced", input: "$$\na\n$$", values: []string{"a"}},
		{name: "longer closing run", input: "$$\na\n$$$", values: []string{"a"}},
		{name: "short closing run is content", input: "$$$\na\n$$\n$$$", values: []string{"a", "$$"}},
		{name: "meta", input: "$$ tex\na\n$$", values: []string{"a"}, meta: []string{"tex"}},
		{name: "unclosed", input: "$$\na\nb", values: []string{"a", "b"}},
		{name: "empty", input: "$$\n$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := parse(t, tt.input, parser.Options{})
			require.NotNil(t, first(snapshot, mdevent.TypeMathFlow))

			var values, meta []string
			for _, s := range spansOf(snapshot, mdevent.TypeMathFlowValue) {
				values = append(values, s.Text)
			}
			for _, s := range spansOf(snapshot, mdevent.TypeMathFlowFenceMeta) {
				meta = append(meta, s.Text)
			}
			assert.Equal(t, tt.values, values)
			assert.Equal(t, tt.meta, meta)
		})
	}
}

func TestFlowDollar_NotAFence(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"$a$", "$$ a $$", "$\na\n$"} {
		snapshot := parse(t, input, parser.Options{})
		assert.Nil(t, first(snapshot, mdevent.TypeMathFlow), "input %q", input)
	}
}

func TestFlowDollar_InterruptsParagraph(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "a\n$$\nb\n$$", parser.Options{})

	paragraph := first(snapshot, mdevent.TypeParagraph)
	require.NotNil(t, paragraph)
	assert.Equal(t, 1, paragraph.End.Offset)
	assert.Equal(t, []span{{mdevent.TypeMathFlowValue, "b"}}, spansOf(snapshot, mdevent.TypeMathFlowValue))
}
