package parser

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// document is the state of one Parse call.
type document struct {
	t          *engine.Tokenizer
	src        []byte
	containers *containers
	ext        engine.Extension
}

func newDocument(p *Parser, snapshot *mdevent.Snapshot) *document {
	c := scanContainers(snapshot.Content, snapshot.Lines)
	return &document{
		t:          engine.New(snapshot.Content, engine.WithLines(c), engine.WithDisabled(p.disable...)),
		src:        snapshot.Content,
		containers: c,
		ext:        p.ext,
	}
}

// done ends a host-level state chain.
func done(engine.Code) engine.State { return nil }

func (d *document) run() {
	for {
		d.lineStart()
		if d.t.Code() == engine.EOF {
			break
		}
		d.lineEnding(d.flow())
	}

	for ; d.containers.depth > 0; d.containers.depth-- {
		d.t.Exit(mdevent.TypeBlockQuote)
	}
}

// lineStart closes block quotes whose markers are missing on the current line
// and opens the ones that are new.
func (d *document) lineStart() {
	t := d.t
	markers := d.containers.line(t.Now().Line)

	for ; d.containers.depth > len(markers); d.containers.depth-- {
		t.Exit(mdevent.TypeBlockQuote)
	}
	t.Flush()

	for _, marker := range markers[d.containers.depth:] {
		t.Enter(mdevent.TypeBlockQuote)
		t.Enter(mdevent.TypeBlockQuotePrefix)
		for t.Offset() < marker.End {
			t.Consume(t.Code())
		}
		t.Exit(mdevent.TypeBlockQuotePrefix)
		d.containers.depth++
	}
}

// flow parses the rest of the line as a blank line, indented code, an
// extension construct or a paragraph, leaving the cursor at the line ending
// that follows. It returns the type that line ending gets.
func (d *document) flow() mdevent.TokenType {
	t := d.t

	if d.restIsBlank() {
		t.Run(engine.Space(t, done, mdevent.TypeLinePrefix, 0))
		return mdevent.TypeLineEndingBlank
	}

	if !t.Disabled(engine.ConstructCodeIndented) && t.Try(codeIndented) {
		return mdevent.TypeLineEnding
	}

	t.Run(engine.Space(t, done, mdevent.TypeLinePrefix, d.indentLimit()))

	if !d.tryAny(d.ext.Flow[t.Code()]) {
		d.paragraph()
	}
	return mdevent.TypeLineEnding
}

// indentLimit is the Space bound for flow line prefixes: three columns, or
// unbounded when indented code is off.
func (d *document) indentLimit() int {
	if d.t.Disabled(engine.ConstructCodeIndented) {
		return 0
	}
	return codeIndentSize
}

func (d *document) tryAny(constructs []*engine.Construct) bool {
	for _, c := range constructs {
		if c.Partial || d.t.Disabled(c.Name) {
			continue
		}
		if d.t.Try(c) {
			return true
		}
	}
	return false
}

// lineEnding consumes a line ending, if the cursor is at one.
func (d *document) lineEnding(typ mdevent.TokenType) {
	t := d.t
	if !engine.IsLineEnding(t.Code()) {
		return
	}
	t.Enter(typ)
	t.Consume(t.Code())
	t.Exit(typ)
}

// restIsBlank reports whether only spaces and tabs remain on the line.
func (d *document) restIsBlank() bool {
	for _, b := range d.src[d.t.Offset():] {
		switch b {
		case '\n', '\r':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}
