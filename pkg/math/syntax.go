// Package math recognizes math in Markdown: block math fenced by `\[ \]` or
// `$$`, and inline math delimited by `\( \)` or dollar runs.
package math

import "github.com/yaklabco/mdmath/pkg/engine"

// Options configures the math constructs.
type Options struct {
	// SingleDollarTextMath allows `$x$` in addition to `$$x$$`.
	// Nil means true.
	SingleDollarTextMath *bool `yaml:"single_dollar,omitempty" json:"singleDollar,omitempty"`

	// InlineDisplay allows `\[x\]` inside a line as display math.
	InlineDisplay bool `yaml:"inline_display,omitempty" json:"inlineDisplay,omitempty"`
}

func (o Options) singleDollar() bool {
	return o.SingleDollarTextMath == nil || *o.SingleDollarTextMath
}

// New returns the math constructs keyed by their leading code: a backslash
// for the LaTeX delimiters and a dollar sign for the dollar delimiters.
func New(opts Options) engine.Extension {
	return engine.Extension{
		Flow: map[engine.Code][]*engine.Construct{
			engine.Dollar:    {FlowDollar},
			engine.Backslash: {FlowLatex},
		},
		Text: map[engine.Code][]*engine.Construct{
			engine.Dollar:    {TextDollar(opts)},
			engine.Backslash: {TextLatex(opts)},
		},
	}
}
