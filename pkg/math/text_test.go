package math_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

func TestTextLatex(t *testing.T) {
	t.Parallel()

	data := func(text string) span { return span{mdevent.TypeMathTextData, text} }
	padding := func(text string) span { return span{mdevent.TypeMathTextPadding, text} }

	tests := []struct {
		name  string
		input string
		want  [][]span
	}{
		{"simple", "a \\(b\\) c", [][]span{{data("b")}}},
		{"padding", "\\( a \\)", [][]span{{padding(" "), data("a"), padding(" ")}}},
		{"merged words", "\\(a + b\\)", [][]span{{data("a + b")}}},
		{"only spaces", "\\(  \\)", [][]span{{{mdevent.TypeSpace, "  "}}}},
		{"single space", "\\( \\)", [][]span{{{mdevent.TypeSpace, " "}}}},
		{"empty", "\\(\\)", [][]span{{}}},
		{
			name:  "line ending splits data",
			input: "\\(a\nb\\)",
			want:  [][]span{{data("a"), {mdevent.TypeLineEnding, "\n"}, data("b")}},
		},
		{"line ending padding", "\\(\na\n\\)", [][]span{{padding("\n"), data("a"), padding("\n")}}},
		{"backslash inside", "\\(a\\b\\)", [][]span{{data("a\\b")}}},
		{"backslash before close", "\\(a\\\\)", [][]span{{data("a\\")}}},
		{"tab is data", "\\(a\tb\\)", [][]span{{data("a\tb")}}},
		{"two spans", "\\(a\\) and \\(b\\)", [][]span{{data("a")}, {data("b")}}},
		{"after escaped backslash", "a \\\\\\(b\\) c", [][]span{{data("b")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := parse(t, tt.input, parser.Options{})
			assert.Equal(t, tt.want, inlineChildren(snapshot))
		})
	}
}

func TestTextLatex_NotMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"escaped backslash", "a \\\\(b\\) c"},
		{"unclosed", "a \\(b c"},
		{"display without option", "a \\[b\\] c"},
		{"other escape", "\\*a\\*"},
		{"closing only", "a\\)"},
		{"unclosed at paragraph end", "\\(a\n\nb\\)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot := parse(t, tt.input, parser.Options{})
			assert.Empty(t, inlineChildren(snapshot))
		})
	}
}

func TestTextLatex_InlineDisplay(t *testing.T) {
	t.Parallel()

	opts := parser.Options{}
	opts.Math.InlineDisplay = true

	snapshot := parse(t, "a \\[b\\] c", opts)
	require.Len(t, inlineChildren(snapshot), 1)

	sequences := spansOf(snapshot, mdevent.TypeMathTextSequence)
	assert.Equal(t, []span{
		{mdevent.TypeMathTextSequence, "\\["},
		{mdevent.TypeMathTextSequence, "\\]"},
	}, sequences)

	// A paren opener still needs a paren closer.
	mixed := parse(t, "\\(b\\]", opts)
	assert.Empty(t, inlineChildren(mixed))
}

func TestTextLatex_InsideQuote(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "> a \\(b\n> c\\)", parser.Options{})

	children := inlineChildren(snapshot)
	require.Len(t, children, 1)
	assert.Equal(t, []span{
		{mdevent.TypeMathTextData, "b"},
		{mdevent.TypeLineEnding, "\n"},
		{mdevent.TypeBlockQuotePrefix, "> "},
		{mdevent.TypeMathTextData, "c"},
	}, children[0])
}

func TestTextDollar(t *testing.T) {
	t.Parallel()

	data := func(text string) span { return span{mdevent.TypeMathTextData, text} }

	tests := []struct {
		name   string
		input  string
		single *bool
		want   [][]span
	}{
		{name: "single", input: "a $b$ c", want: [][]span{{data("b")}}},
		{name: "double", input: "a $$b$$ c", want: [][]span{{data("b")}}},
		{name: "other run is content", input: "$a$$b$", want: [][]span{{data("a$$b")}}},
		{
			name:  "padding",
			input: "$$ a $$",
			want:  [][]span{{{mdevent.TypeMathTextPadding, " "}, data("a"), {mdevent.TypeMathTextPadding, " "}}},
		},
		{name: "single off", input: "a $b$ c", single: boolPtr(false), want: nil},
		{name: "double with single off", input: "a $$b$$ c", single: boolPtr(false), want: [][]span{{data("b")}}},
		{name: "escaped", input: "\\$a$", want: nil},
		{name: "unclosed", input: "$a", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := parser.Options{}
			opts.Math.SingleDollarTextMath = tt.single

			snapshot := parse(t, tt.input, opts)
			assert.Equal(t, tt.want, inlineChildren(snapshot))
		})
	}
}

func TestDollarAndLatexCoexist(t *testing.T) {
	t.Parallel()

	snapshot := parse(t, "$a$ and \\(b\\)\n\n$$\nc\n$$\n\n\\[\nd\n\\]", parser.Options{})

	assert.Len(t, inlineChildren(snapshot), 2)
	assert.Equal(t, []span{
		{mdevent.TypeMathFlowValue, "c"},
		{mdevent.TypeMathFlowValue, "d"},
	}, spansOf(snapshot, mdevent.TypeMathFlowValue))
}
