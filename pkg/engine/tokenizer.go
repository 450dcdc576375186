// Package engine is a character-at-a-time tokenizer runtime for Markdown
// constructs. Constructs are written as chains of State functions that
// consume codes and open and close labeled spans; the Tokenizer records the
// resulting enter/exit events and supports speculative attempts that are
// rolled back on failure.
package engine

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// Tokenizer owns the cursor and the event trace for one input.
// It is not safe for concurrent use.
type Tokenizer struct {
	src []byte

	// point is the position reported by Now. While container prefix skips
	// are pending it stays at the start of the line.
	point mdevent.Point

	// read is the offset of the current code, which is past any pending skips.
	read int
	code Code
	size int

	limit     int
	lineStart int
	previous  Code
	pending   []Skip

	events []mdevent.Event
	stack  []*mdevent.Token
	floor  int
	steps  int

	lines    Lines
	disabled map[string]bool

	// Interrupt is set by the host while checking whether a flow construct
	// can interrupt a paragraph.
	Interrupt bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLines installs the host's container view.
func WithLines(lines Lines) Option {
	return func(t *Tokenizer) {
		t.lines = lines
	}
}

// WithDisabled turns off the named constructs.
func WithDisabled(names ...string) Option {
	return func(t *Tokenizer) {
		for _, name := range names {
			t.disabled[name] = true
		}
	}
}

// New returns a tokenizer positioned at the start of src.
func New(src []byte, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		src:      src,
		point:    mdevent.Point{Line: 1, Column: 1},
		limit:    -1,
		previous: EOF,
		disabled: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.decode()
	return t
}

// Source returns the input being tokenized.
func (t *Tokenizer) Source() []byte { return t.src }

// Code returns the current code.
func (t *Tokenizer) Code() Code { return t.code }

// Previous returns the last consumed code, or EOF at the start of input.
func (t *Tokenizer) Previous() Code { return t.previous }

// Now returns the current position.
func (t *Tokenizer) Now() mdevent.Point { return t.point }

// Offset returns the byte offset of the current code, past pending skips.
func (t *Tokenizer) Offset() int { return t.read }

// Events returns the trace so far. The slice is owned by the tokenizer.
func (t *Tokenizer) Events() []mdevent.Event { return t.events }

// Depth returns the number of open spans.
func (t *Tokenizer) Depth() int { return len(t.stack) }

// Lazy reports whether the given line is a lazy container continuation.
func (t *Tokenizer) Lazy(line int) bool {
	return t.lines != nil && t.lines.Lazy(line)
}

// Disabled reports whether the named construct is turned off.
func (t *Tokenizer) Disabled(name string) bool {
	return t.disabled[name]
}

// Limit makes the input appear to end at offset. A negative offset removes
// the limit.
func (t *Tokenizer) Limit(offset int) {
	t.limit = offset
	t.decode()
}

// Enter opens a span of the given type at the current position.
func (t *Tokenizer) Enter(typ mdevent.TokenType) *mdevent.Token {
	t.flush()
	tok := &mdevent.Token{Type: typ, Start: t.point, End: t.point}
	t.stack = append(t.stack, tok)
	t.events = append(t.events, mdevent.EnterEvent(tok))
	return tok
}

// Exit closes the innermost open span, which must have the given type.
func (t *Tokenizer) Exit(typ mdevent.TokenType) *mdevent.Token {
	if len(t.stack) <= t.floor {
		panic(fmt.Sprintf("engine: exit %s with no open span at %s", typ, t.point))
	}
	tok := t.stack[len(t.stack)-1]
	if tok.Type != typ {
		panic(fmt.Sprintf("engine: exit %s while %s is open at %s", typ, tok.Type, t.point))
	}
	tok.End = t.point
	t.stack = t.stack[:len(t.stack)-1]
	t.events = append(t.events, mdevent.ExitEvent(tok))
	return tok
}

// Consume advances past the current code, which must equal code.
func (t *Tokenizer) Consume(code Code) {
	if code != t.code {
		panic(fmt.Sprintf("engine: consume %s while at %s (%s)", code, t.code, t.point))
	}
	if code == EOF {
		panic(fmt.Sprintf("engine: consume past end of input at %s", t.point))
	}

	t.flush()
	t.previous = code
	t.read += t.size
	t.steps++

	if IsLineEnding(code) {
		t.point = mdevent.Point{Line: t.point.Line + 1, Column: 1, Offset: t.read}
		t.lineStart = t.read
		if t.lines != nil {
			if skips := t.lines.Prefix(t.point.Line); len(skips) > 0 {
				t.pending = skips
				t.read = skips[len(skips)-1].End
			}
		}
	} else {
		t.point.Column += t.size
		t.point.Offset = t.read
	}

	t.decode()
}

// Flush emits any pending container prefix spans and moves Now past them.
func (t *Tokenizer) Flush() {
	t.flush()
}

func (t *Tokenizer) flush() {
	if len(t.pending) == 0 {
		return
	}

	skips := t.pending
	t.pending = nil
	for _, skip := range skips {
		tok := &mdevent.Token{Type: skip.Type, Start: t.pointAt(skip.Start), End: t.pointAt(skip.End)}
		t.events = append(t.events, mdevent.EnterEvent(tok), mdevent.ExitEvent(tok))
	}
	t.point = t.pointAt(t.read)
}

func (t *Tokenizer) pointAt(offset int) mdevent.Point {
	return mdevent.Point{Line: t.point.Line, Column: 1 + offset - t.lineStart, Offset: offset}
}

func (t *Tokenizer) decode() {
	end := len(t.src)
	if t.limit >= 0 && t.limit < end {
		end = t.limit
	}

	if t.read >= end {
		t.code, t.size = EOF, 0
		return
	}

	b := t.src[t.read]
	switch {
	case b == '\r':
		if t.read+1 < end && t.src[t.read+1] == '\n' {
			t.code, t.size = CRLF, 2
			return
		}
		t.code, t.size = CR, 1
	case b < utf8.RuneSelf:
		t.code, t.size = Code(b), 1
	default:
		r, size := utf8.DecodeRune(t.src[t.read:end])
		t.code, t.size = Code(r), size
	}
}

// checkpoint is everything an attempt restores on failure.
type checkpoint struct {
	point     mdevent.Point
	read      int
	code      Code
	size      int
	lineStart int
	previous  Code
	pending   []Skip
	events    int
	stack     []*mdevent.Token
	floor     int
	steps     int
}

func (t *Tokenizer) save() checkpoint {
	return checkpoint{
		point:     t.point,
		read:      t.read,
		code:      t.code,
		size:      t.size,
		lineStart: t.lineStart,
		previous:  t.previous,
		pending:   t.pending,
		events:    len(t.events),
		stack:     slices.Clone(t.stack),
		floor:     t.floor,
		steps:     t.steps,
	}
}

func (t *Tokenizer) restore(cp checkpoint) {
	t.point = cp.point
	t.read = cp.read
	t.code = cp.code
	t.size = cp.size
	t.lineStart = cp.lineStart
	t.previous = cp.previous
	t.pending = cp.pending
	t.events = t.events[:cp.events]
	t.stack = cp.stack
	t.floor = cp.floor
	t.steps = cp.steps
}

type outcome uint8

const (
	running outcome = iota
	accepted
	rejected
)

// try runs c from the current position. On failure, or when commit is false,
// every effect is rolled back. It reports whether c succeeded.
func (t *Tokenizer) try(c *Construct, commit bool) bool {
	if c.Previous != nil && !c.Previous(t, t.previous) {
		return false
	}

	t.flush()
	cp := t.save()
	t.floor = len(t.stack)

	result := running
	accept := func(Code) State {
		result = accepted
		return nil
	}
	reject := func(Code) State {
		result = rejected
		return nil
	}

	t.run(c.Tokenize(t, accept, reject))

	if result != accepted || !commit {
		t.restore(cp)
		return result == accepted
	}

	if len(t.stack) != len(cp.stack) {
		panic(fmt.Sprintf("engine: %s left %d spans open", c.Name, len(t.stack)-len(cp.stack)))
	}
	t.floor = cp.floor

	if c.Resolve != nil {
		resolved := c.Resolve(slices.Clone(t.events[cp.events:]))
		t.events = append(t.events[:cp.events], resolved...)
	}

	return true
}

func (t *Tokenizer) run(state State) {
	for state != nil {
		steps := t.steps
		state = state(t.code)
		if state != nil && t.steps == steps {
			panic(fmt.Sprintf("engine: state returned without consuming %s at %s", t.code, t.point))
		}
	}
}

// Attempt returns a state that runs c and, if it succeeds, keeps its events
// and continues in ok. Otherwise everything c did is undone and nok
// continues from the original position.
func (t *Tokenizer) Attempt(c *Construct, ok, nok State) State {
	return func(Code) State {
		if t.try(c, true) {
			return ok(t.code)
		}
		return nok(t.code)
	}
}

// Check is like Attempt but always rolls back, so it only decides between
// ok and nok.
func (t *Tokenizer) Check(c *Construct, ok, nok State) State {
	return func(Code) State {
		if t.try(c, false) {
			return ok(t.code)
		}
		return nok(t.code)
	}
}

// Try runs c from the host and commits it on success.
func (t *Tokenizer) Try(c *Construct) bool {
	return t.try(c, true)
}

// Lookahead runs c from the host and always rolls it back.
func (t *Tokenizer) Lookahead(c *Construct) bool {
	return t.try(c, false)
}

// Run drives a host-level state chain until it stops.
func (t *Tokenizer) Run(state State) {
	t.run(state)
}
