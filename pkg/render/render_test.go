package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
	"github.com/yaklabco/mdmath/pkg/render"
)

func renderString(t *testing.T, src string, opts parser.Options) string {
	t.Helper()

	snapshot, err := parser.New(opts).Parse(context.Background(), "test.md", []byte(src))
	require.NoError(t, err)
	return render.HTML(snapshot)
}

func TestHTML(t *testing.T) {
	t.Parallel()

	const (
		inline  = `<span class="math math-inline">`
		display = `<div class="math math-display">`
	)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"inline", "a \\(b\\) c", "<p>a " + inline + "b</span> c</p>\n"},
		{"block", "\\[\na\n\\]", display + "a</div>\n"},
		{"escaped backslash before inline", "a \\\\(b\\) c", "<p>a \\(b) c</p>\n"},
		{"escaped backslash before block", "\\\\[\na\n\\]", "<p>\\[\na\n]</p>\n"},
		{"inline after escaped backslash", "a \\\\\\(b\\) c", "<p>a \\" + inline + "b</span> c</p>\n"},
		{"unclosed inline", "a \\(b c", "<p>a (b c</p>\n"},
		{"unclosed block", "\\[\na", display + "a</div>\n"},
		{"unclosed block with line ending", "\\[\na\n", display + "a</div>\n"},
		{"trailing spaces after fence", "\\[\na\n\\]  ", display + "a</div>\n"},
		{"block then paragraph", "\\[\na\n\\]    \ntest", display + "a</div>\n<p>test</p>\n"},
		{"dollar in block", "\\[\n\\$1,000,000\n\\]        |", display + "\\$1,000,000</div>\n"},
		{"commands in block", "\\[\n\\text{hello} \\alpha \\beta\n\\]", display + "\\text{hello} \\alpha \\beta</div>\n"},
		{"fence after content", "\\[\nx = 1\\]", display + "x = 1</div>\n"},
		{"blank line in block", "\\[\nx = 1\n\ny = 2\n\\]", display + "x = 1\n\ny = 2</div>\n"},
		{"leading blank line in block", "\\[\n\nx = 1\n\\]", display + "\nx = 1</div>\n"},
		{"empty block", "\\[\n\\]", display + "</div>\n"},
		{"padding dropped", "\\( a \\)", "<p>" + inline + "a</span></p>\n"},
		{"line ending becomes space", "\\(a\nb\\)", "<p>" + inline + "a b</span></p>\n"},
		{"escaped html", "\\(a<b\\) & c", "<p>" + inline + "a&lt;b</span> &amp; c</p>\n"},
		{"dollar inline", "$x$", "<p>" + inline + "x</span></p>\n"},
		{"dollar block", "$$\nx\n$$", display + "x</div>\n"},
		{"quote", "> a", "<blockquote>\n<p>a</p>\n</blockquote>\n"},
		{"quoted block", "> \\[\n> a\n> \\]", "<blockquote>\n" + display + "a</div>\n</blockquote>\n"},
		{"code", "    a < b", "<pre><code>a &lt; b\n</code></pre>\n"},
		{"paragraph lines", "a\nb", "<p>a\nb</p>\n"},
		{"empty document", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, renderString(t, tt.input, parser.Options{}))
		})
	}
}

func TestHTML_InlineDisplay(t *testing.T) {
	t.Parallel()

	opts := parser.Options{}
	opts.Math.InlineDisplay = true

	got := renderString(t, "a \\[b\\] c", opts)
	assert.Equal(t, `<p>a <span class="math math-display">b</span> c</p>`+"\n", got)

	assert.Equal(t, "<p>a [b] c</p>\n", renderString(t, "a \\[b\\] c", parser.Options{}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender(t *testing.T) {
	t.Parallel()

	snapshot, err := parser.New(parser.Options{}).Parse(context.Background(), "test.md", []byte("\\(x\\)"))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, render.Render(&out, snapshot))
	assert.Equal(t, render.HTML(snapshot), out.String())

	err = render.Render(failingWriter{}, snapshot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestHTML_CodeLanguage(t *testing.T) {
	t.Parallel()

	parse := func(src string) *mdevent.Snapshot {
		snapshot, err := parser.New(parser.Options{}).Parse(context.Background(), "test.md", []byte(src))
		require.NoError(t, err)
		return snapshot
	}

	tex := parse("    \\frac{a}{b} + \\sqrt{c}")
	assert.Equal(t,
		`<pre><code class="language-tex">\frac{a}{b} + \sqrt{c}`+"\n</code></pre>\n",
		render.HTML(tex, render.WithCodeLanguage()))
	assert.NotContains(t, render.HTML(tex), "language-")

	plain := parse("    plain words")
	assert.Equal(t, "<pre><code>plain words\n</code></pre>\n", render.HTML(plain, render.WithCodeLanguage()))
}
