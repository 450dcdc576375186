package math_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// pieces are the fragments random documents are built from. They favor the
// characters the math constructs and the host react to.
//
//nolint:gochecknoglobals // Test fixture.
var pieces = []string{
	"\\", "[", "]", "(", ")", "$", "$$", " ", "  ", "\t", "a", "x = 1",
	"\n", "\r\n", "\r", "> ", ">", "    ", "\\[", "\\]", "\\(", "\\)", "\\\\",
}

func drawOptions(rt *rapid.T) parser.Options {
	opts := parser.Options{}
	opts.Math.InlineDisplay = rapid.Bool().Draw(rt, "inlineDisplay")
	if rapid.Bool().Draw(rt, "singleDollarSet") {
		single := rapid.Bool().Draw(rt, "singleDollar")
		opts.Math.SingleDollarTextMath = &single
	}
	if rapid.Bool().Draw(rt, "noCodeIndented") {
		opts.Disable = []string{engine.ConstructCodeIndented}
	}
	return opts
}

func TestParse_TraceProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		src := strings.Join(rapid.SliceOfN(rapid.SampledFrom(pieces), 0, 30).Draw(rt, "pieces"), "")
		opts := drawOptions(rt)

		snapshot, err := parser.New(opts).Parse(context.Background(), "test.md", []byte(src))
		require.NoError(rt, err)

		// Nesting is balanced.
		require.NoError(rt, mdevent.Validate(snapshot.Events))

		// Leaves reproduce the input.
		var rebuilt strings.Builder
		for _, leaf := range mdevent.Leaves(snapshot.Events) {
			rebuilt.Write(leaf.Text(snapshot.Content))
		}
		require.Equal(rt, src, rebuilt.String())

		assertResolveIdempotent(rt, snapshot)
	})
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"a \\(b\\) c",
		"\\[\na\n\\]",
		"\\[\nx = 1\\]",
		"> \\[\na",
		"$$\na\n$$",
		"a $b$ c",
		"    code\n\n\\[\n\n\\]",
		"\\[\r\n\\text{a} \\alpha\r\n\\]",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	p := parser.New(parser.Options{})

	f.Fuzz(func(t *testing.T, src string) {
		snapshot, err := p.Parse(context.Background(), "fuzz.md", []byte(src))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}

		var rebuilt strings.Builder
		for _, leaf := range mdevent.Leaves(snapshot.Events) {
			rebuilt.Write(leaf.Text(snapshot.Content))
		}
		if rebuilt.String() != src {
			t.Errorf("leaves = %q, want %q", rebuilt.String(), src)
		}
	})
}
