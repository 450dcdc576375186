// Package render turns a parse trace into HTML. Math is emitted as escaped
// TeX inside elements carrying the "math" class, for a client-side
// typesetter to pick up.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdmath/pkg/langdetect"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// Class names on math elements.
const (
	ClassDisplay = "math math-display"
	ClassInline  = "math math-inline"
)

// Option configures rendering.
type Option func(*renderer)

// WithCodeLanguage labels indented code blocks with a "language-*" class
// when their language can be detected.
func WithCodeLanguage() Option {
	return func(r *renderer) {
		r.detect = langdetect.Detect
	}
}

// HTML renders a snapshot to a string.
func HTML(snapshot *mdevent.Snapshot, opts ...Option) string {
	var buf bytes.Buffer
	newRenderer(snapshot, &buf, opts).render()
	return buf.String()
}

// Render writes the HTML for a snapshot to w.
func Render(w io.Writer, snapshot *mdevent.Snapshot, opts ...Option) error {
	var buf bytes.Buffer
	newRenderer(snapshot, &buf, opts).render()
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}

type renderer struct {
	content []byte
	events  []mdevent.Event
	out     *bytes.Buffer
	inText  bool
	detect  func([]byte) string
}

func newRenderer(snapshot *mdevent.Snapshot, out *bytes.Buffer, opts []Option) *renderer {
	r := &renderer{content: snapshot.Content, events: snapshot.Events, out: out}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *renderer) render() {
	for idx := 0; idx < len(r.events); idx++ {
		ev := r.events[idx]
		if ev.Kind == mdevent.Exit {
			r.exit(ev.Token)
			continue
		}

		switch ev.Token.Type {
		case mdevent.TypeBlockQuote:
			r.out.WriteString("<blockquote>\n")
		case mdevent.TypeParagraph:
			r.out.WriteString("<p>")
			r.inText = true
		case mdevent.TypeCodeIndented:
			idx = r.codeIndented(idx)
		case mdevent.TypeMathFlow:
			idx = r.mathFlow(idx)
		case mdevent.TypeMathText:
			idx = r.mathText(idx)
		case mdevent.TypeData, mdevent.TypeCharacterEscapeValue:
			r.text(ev.Token)
		case mdevent.TypeLineEnding:
			if r.inText {
				r.out.WriteByte('\n')
			}
		}
	}
}

func (r *renderer) exit(tok *mdevent.Token) {
	switch tok.Type {
	case mdevent.TypeBlockQuote:
		r.out.WriteString("</blockquote>\n")
	case mdevent.TypeParagraph:
		r.out.WriteString("</p>\n")
		r.inText = false
	}
}

func (r *renderer) text(tok *mdevent.Token) {
	r.out.Write(util.EscapeHTML(tok.Text(r.content)))
}

// codeIndented renders the span entered at events[open] and returns the
// index of its exit.
func (r *renderer) codeIndented(open int) int {
	closing := mdevent.Closing(r.events, open)
	var code bytes.Buffer
	for _, ev := range r.events[open+1 : closing] {
		if ev.Kind != mdevent.Enter {
			continue
		}
		switch ev.Token.Type {
		case mdevent.TypeCodeFlowValue:
			code.Write(ev.Token.Text(r.content))
		case mdevent.TypeLineEnding:
			code.WriteByte('\n')
		}
	}

	r.out.WriteString("<pre><code")
	if r.detect != nil {
		if lang := r.detect(code.Bytes()); lang != langdetect.Unknown {
			r.out.WriteString(` class="language-` + lang + `"`)
		}
	}
	r.out.WriteByte('>')
	r.out.Write(util.EscapeHTML(code.Bytes()))
	r.out.WriteString("\n</code></pre>\n")
	return closing
}

// mathFlow renders block math. The line endings after the opening fence and
// before the closing fence are not part of the math.
func (r *renderer) mathFlow(open int) int {
	closing := mdevent.Closing(r.events, open)
	var tex []byte
	for _, ev := range r.events[open+1 : closing] {
		if ev.Kind != mdevent.Enter {
			continue
		}
		switch ev.Token.Type {
		case mdevent.TypeMathFlowValue:
			tex = append(tex, ev.Token.Text(r.content)...)
		case mdevent.TypeLineEnding:
			tex = append(tex, '\n')
		}
	}
	tex = bytes.TrimPrefix(tex, []byte{'\n'})
	tex = bytes.TrimSuffix(tex, []byte{'\n'})

	r.out.WriteString(`<div class="` + ClassDisplay + `">`)
	r.out.Write(util.EscapeHTML(tex))
	r.out.WriteString("</div>\n")
	return closing
}

// mathText renders inline math. Padding is dropped and line endings become
// spaces.
func (r *renderer) mathText(open int) int {
	closing := mdevent.Closing(r.events, open)
	class := ClassInline
	var tex []byte

	for idx, ev := range r.events[open+1 : closing] {
		if ev.Kind != mdevent.Enter {
			continue
		}
		switch ev.Token.Type {
		case mdevent.TypeMathTextSequence:
			if idx == 0 && string(ev.Token.Text(r.content)) == `\[` {
				class = ClassDisplay
			}
		case mdevent.TypeMathTextData, mdevent.TypeSpace:
			tex = append(tex, ev.Token.Text(r.content)...)
		case mdevent.TypeLineEnding:
			tex = append(tex, ' ')
		}
	}

	r.out.WriteString(`<span class="` + class + `">`)
	r.out.Write(util.EscapeHTML(tex))
	r.out.WriteString("</span>")
	return closing
}
