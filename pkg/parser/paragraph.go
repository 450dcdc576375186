package parser

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// paragraph parses a paragraph starting at the current code. Its extent is
// found first with a lookahead, then its text is parsed with the input
// limited to that extent.
func (d *document) paragraph() {
	t := d.t

	end := d.paragraphEnd()

	t.Enter(mdevent.TypeParagraph)
	t.Limit(end)
	d.text()
	t.Limit(-1)
	t.Exit(mdevent.TypeParagraph)
}

// paragraphEnd returns the offset where the paragraph's last line content
// ends.
func (d *document) paragraphEnd() int {
	end := -1

	scan := &engine.Construct{
		Name:    "paragraphExtent",
		Partial: true,
		Tokenize: func(t *engine.Tokenizer, ok, _ engine.State) engine.State {
			var content engine.State
			content = func(code engine.Code) engine.State {
				if engine.IsLineEndingOrEOF(code) {
					end = t.Offset()
					if code == engine.EOF || !d.continues() {
						return ok(code)
					}
					t.Enter(mdevent.TypeLineEnding)
					t.Consume(code)
					t.Exit(mdevent.TypeLineEnding)
					return content
				}
				t.Consume(code)
				return content
			}
			return content
		},
	}

	d.t.Lookahead(scan)
	return end
}

// continues reports whether the line after the line ending at the cursor
// continues the current paragraph.
func (d *document) continues() bool {
	check := &engine.Construct{
		Name:     "paragraphContinuation",
		Partial:  true,
		Tokenize: d.tokenizeContinuation,
	}
	return d.t.Lookahead(check)
}

func (d *document) tokenizeContinuation(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	interrupts := func(code engine.Code) engine.State {
		t.Interrupt = true
		defer func() { t.Interrupt = false }()

		for _, c := range d.ext.Flow[code] {
			if c.Partial || t.Disabled(c.Name) {
				continue
			}
			if t.Lookahead(c) {
				return nok(code)
			}
		}
		return ok(code)
	}

	lineStart := func(code engine.Code) engine.State {
		line := t.Now().Line
		if len(d.containers.line(line)) > d.containers.depth || d.restIsBlank() {
			return nok(code)
		}
		return engine.Space(t, interrupts, mdevent.TypeLinePrefix, codeIndentSize)(code)
	}

	return func(code engine.Code) engine.State {
		t.Enter(mdevent.TypeLineEnding)
		t.Consume(code)
		t.Exit(mdevent.TypeLineEnding)
		return lineStart
	}
}

// text parses inline content up to the current limit.
func (d *document) text() {
	t := d.t
	for code := t.Code(); code != engine.EOF; code = t.Code() {
		if d.special(code) {
			if d.tryAny(d.ext.Text[code]) {
				continue
			}
			if code == engine.Backslash && t.Try(characterEscape) {
				continue
			}
			if engine.IsLineEnding(code) {
				d.lineEnding(mdevent.TypeLineEnding)
				t.Run(engine.Space(t, done, mdevent.TypeLinePrefix, 0))
				continue
			}
		}
		d.data()
	}
}

// data consumes the current code and everything up to the next code that
// may start something else.
func (d *document) data() {
	t := d.t
	t.Enter(mdevent.TypeData)
	t.Consume(t.Code())
	for code := t.Code(); code != engine.EOF && !d.special(code); code = t.Code() {
		t.Consume(code)
	}
	t.Exit(mdevent.TypeData)
}

func (d *document) special(code engine.Code) bool {
	if code == engine.Backslash || engine.IsLineEnding(code) {
		return true
	}
	_, ok := d.ext.Text[code]
	return ok
}

// characterEscape is a backslash followed by ASCII punctuation.
//
//nolint:gochecknoglobals // Constructs are immutable descriptors.
var characterEscape = &engine.Construct{
	Name: "characterEscape",
	Tokenize: func(t *engine.Tokenizer, ok, nok engine.State) engine.State {
		inside := func(code engine.Code) engine.State {
			if !engine.IsASCIIPunctuation(code) {
				return nok(code)
			}
			t.Enter(mdevent.TypeCharacterEscapeValue)
			t.Consume(code)
			t.Exit(mdevent.TypeCharacterEscapeValue)
			t.Exit(mdevent.TypeCharacterEscape)
			return ok
		}

		return func(code engine.Code) engine.State {
			if code != engine.Backslash {
				return nok(code)
			}
			t.Enter(mdevent.TypeCharacterEscape)
			t.Enter(mdevent.TypeEscapeMarker)
			t.Consume(code)
			t.Exit(mdevent.TypeEscapeMarker)
			return inside
		}
	},
}
