package math

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// FlowLatex is block math fenced by `\[` and `\]`.
//
//nolint:gochecknoglobals // Constructs are immutable descriptors.
var FlowLatex = &engine.Construct{
	Name:     "mathFlowLatex",
	Tokenize: tokenizeFlowLatex,
}

// nonLazyContinuation consumes a line ending and fails when the line after it
// is a lazy container continuation.
//
//nolint:gochecknoglobals // Constructs are immutable descriptors.
var nonLazyContinuation = &engine.Construct{
	Name:     "nonLazyContinuation",
	Tokenize: tokenizeNonLazyContinuation,
	Partial:  true,
}

type flowLatex struct {
	t       *engine.Tokenizer
	ok, nok engine.State

	// initialSize is the indentation of the opening fence, stripped from
	// every content line.
	initialSize int

	// size counts codes in the open value span.
	size int

	closingFence *engine.Construct
}

func tokenizeFlowLatex(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	f := &flowLatex{t: t, ok: ok, nok: nok, initialSize: linePrefixSize(t)}
	f.closingFence = &engine.Construct{
		Name:     "mathFlowLatexClose",
		Tokenize: f.tokenizeClosingFence,
		Partial:  true,
	}
	return f.start
}

// linePrefixSize returns the width of the linePrefix span the host emitted
// right before the construct, or 0.
func linePrefixSize(t *engine.Tokenizer) int {
	events := t.Events()
	if len(events) == 0 {
		return 0
	}
	tail := events[len(events)-1]
	if !tail.Is(mdevent.Exit, mdevent.TypeLinePrefix) {
		return 0
	}
	return tail.Token.Len()
}

func (f *flowLatex) start(code engine.Code) engine.State {
	if code != engine.Backslash {
		return f.nok(code)
	}
	f.t.Enter(mdevent.TypeMathFlow)
	f.t.Enter(mdevent.TypeMathFlowFence)
	f.t.Enter(mdevent.TypeMathFlowFenceSequence)
	f.t.Consume(code)
	return f.openBracket
}

func (f *flowLatex) openBracket(code engine.Code) engine.State {
	if code != '[' {
		return f.nok(code)
	}
	f.t.Consume(code)
	f.t.Exit(mdevent.TypeMathFlowFenceSequence)
	return f.afterOpeningFence
}

func (f *flowLatex) afterOpeningFence(code engine.Code) engine.State {
	if !engine.IsLineEndingOrEOF(code) {
		return f.nok(code)
	}
	f.t.Exit(mdevent.TypeMathFlowFence)

	if f.t.Interrupt {
		f.t.Exit(mdevent.TypeMathFlow)
		return f.ok(code)
	}

	return f.t.Attempt(nonLazyContinuation, f.beforeNonLazyContinuation, f.after)(code)
}

// beforeNonLazyContinuation is at the start of a line that belongs to the
// block: either a closing fence or content.
func (f *flowLatex) beforeNonLazyContinuation(code engine.Code) engine.State {
	return f.t.Attempt(f.closingFence, f.after, f.contentStart)(code)
}

func (f *flowLatex) contentStart(code engine.Code) engine.State {
	if f.initialSize > 0 {
		return engine.Space(f.t, f.beforeContentChunk, mdevent.TypeLinePrefix, f.initialSize+1)(code)
	}
	return f.beforeContentChunk(code)
}

func (f *flowLatex) beforeContentChunk(code engine.Code) engine.State {
	if code == engine.EOF {
		return f.after(code)
	}
	if engine.IsLineEnding(code) {
		return f.t.Attempt(nonLazyContinuation, f.beforeNonLazyContinuation, f.after)(code)
	}
	f.t.Enter(mdevent.TypeMathFlowValue)
	f.size = 0
	return f.contentChunk(code)
}

func (f *flowLatex) contentChunk(code engine.Code) engine.State {
	if engine.IsLineEndingOrEOF(code) {
		f.t.Exit(mdevent.TypeMathFlowValue)
		return f.beforeContentChunk(code)
	}

	// A backslash can close the block mid-line, but only once the value
	// holds something.
	if code == engine.Backslash && f.size > 0 {
		f.t.Exit(mdevent.TypeMathFlowValue)
		return f.t.Attempt(f.closingFence, f.after, f.backslashContent)(code)
	}

	f.t.Consume(code)
	f.size++
	return f.contentChunk
}

// backslashContent is at a backslash that did not close the block.
func (f *flowLatex) backslashContent(code engine.Code) engine.State {
	f.t.Enter(mdevent.TypeMathFlowValue)
	f.t.Consume(code)
	f.size = 1
	return f.contentChunk
}

func (f *flowLatex) after(code engine.Code) engine.State {
	f.t.Exit(mdevent.TypeMathFlow)
	return f.ok(code)
}

func (f *flowLatex) tokenizeClosingFence(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	beforeSequence := func(code engine.Code) engine.State {
		if code != engine.Backslash {
			return nok(code)
		}
		t.Enter(mdevent.TypeMathFlowFence)
		t.Enter(mdevent.TypeMathFlowFenceSequence)
		t.Consume(code)
		return func(code engine.Code) engine.State {
			if code != ']' {
				return nok(code)
			}
			t.Consume(code)
			t.Exit(mdevent.TypeMathFlowFenceSequence)
			return afterClosingSequence(t, ok)
		}
	}

	return engine.Space(t, beforeSequence, mdevent.TypeLinePrefix, closingIndent(t))
}

// afterClosingSequence takes whatever follows a closing `\]` on its line
// into a trailing span, then finishes the fence.
func afterClosingSequence(t *engine.Tokenizer, ok engine.State) engine.State {
	var trailing engine.State
	trailing = func(code engine.Code) engine.State {
		if engine.IsLineEndingOrEOF(code) {
			t.Exit(mdevent.TypeMathFlowFenceTrailing)
			t.Exit(mdevent.TypeMathFlowFence)
			return ok(code)
		}
		t.Consume(code)
		return trailing
	}

	return func(code engine.Code) engine.State {
		if engine.IsLineEndingOrEOF(code) {
			t.Exit(mdevent.TypeMathFlowFence)
			return ok(code)
		}
		t.Enter(mdevent.TypeMathFlowFenceTrailing)
		return trailing(code)
	}
}

// closingIndent bounds the whitespace before a closing fence: three columns,
// unless indented code is disabled.
func closingIndent(t *engine.Tokenizer) int {
	if t.Disabled(engine.ConstructCodeIndented) {
		return 0
	}
	return 4
}

func tokenizeNonLazyContinuation(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	lineStart := func(code engine.Code) engine.State {
		if t.Lazy(t.Now().Line) {
			return nok(code)
		}
		return ok(code)
	}

	return func(code engine.Code) engine.State {
		if code == engine.EOF {
			return ok(code)
		}
		t.Enter(mdevent.TypeLineEnding)
		t.Consume(code)
		t.Exit(mdevent.TypeLineEnding)
		return lineStart
	}
}
