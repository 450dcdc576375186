package math

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// FlowDollar is block math fenced by runs of two or more dollar signs.
//
//nolint:gochecknoglobals // Constructs are immutable descriptors.
var FlowDollar = &engine.Construct{
	Name:     "mathFlow",
	Tokenize: tokenizeFlowDollar,
}

type flowDollar struct {
	t       *engine.Tokenizer
	ok, nok engine.State

	initialSize int
	sizeOpen    int

	closingFence *engine.Construct
}

func tokenizeFlowDollar(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	f := &flowDollar{t: t, ok: ok, nok: nok, initialSize: linePrefixSize(t)}
	f.closingFence = &engine.Construct{
		Name:     "mathFlowClose",
		Tokenize: f.tokenizeClosingFence,
		Partial:  true,
	}
	return f.start
}

func (f *flowDollar) start(code engine.Code) engine.State {
	if code != engine.Dollar {
		return f.nok(code)
	}
	f.t.Enter(mdevent.TypeMathFlow)
	f.t.Enter(mdevent.TypeMathFlowFence)
	f.t.Enter(mdevent.TypeMathFlowFenceSequence)
	return f.sequenceOpen(code)
}

func (f *flowDollar) sequenceOpen(code engine.Code) engine.State {
	if code == engine.Dollar {
		f.t.Consume(code)
		f.sizeOpen++
		return f.sequenceOpen
	}
	if f.sizeOpen < 2 {
		return f.nok(code)
	}
	f.t.Exit(mdevent.TypeMathFlowFenceSequence)
	return engine.Space(f.t, f.metaBefore, mdevent.TypeWhitespace, 0)(code)
}

func (f *flowDollar) metaBefore(code engine.Code) engine.State {
	if engine.IsLineEndingOrEOF(code) {
		return f.metaAfter(code)
	}
	f.t.Enter(mdevent.TypeMathFlowFenceMeta)
	return f.meta(code)
}

func (f *flowDollar) meta(code engine.Code) engine.State {
	if engine.IsLineEndingOrEOF(code) {
		f.t.Exit(mdevent.TypeMathFlowFenceMeta)
		return f.metaAfter(code)
	}
	if code == engine.Dollar {
		return f.nok(code)
	}
	f.t.Consume(code)
	return f.meta
}

func (f *flowDollar) metaAfter(code engine.Code) engine.State {
	f.t.Exit(mdevent.TypeMathFlowFence)

	if f.t.Interrupt {
		f.t.Exit(mdevent.TypeMathFlow)
		return f.ok(code)
	}

	return f.t.Attempt(nonLazyContinuation, f.beforeNonLazyContinuation, f.after)(code)
}

func (f *flowDollar) beforeNonLazyContinuation(code engine.Code) engine.State {
	return f.t.Attempt(f.closingFence, f.after, f.contentStart)(code)
}

func (f *flowDollar) contentStart(code engine.Code) engine.State {
	if f.initialSize > 0 {
		return engine.Space(f.t, f.beforeContentChunk, mdevent.TypeLinePrefix, f.initialSize+1)(code)
	}
	return f.beforeContentChunk(code)
}

func (f *flowDollar) beforeContentChunk(code engine.Code) engine.State {
	if code == engine.EOF {
		return f.after(code)
	}
	if engine.IsLineEnding(code) {
		return f.t.Attempt(nonLazyContinuation, f.beforeNonLazyContinuation, f.after)(code)
	}
	f.t.Enter(mdevent.TypeMathFlowValue)
	return f.contentChunk(code)
}

func (f *flowDollar) contentChunk(code engine.Code) engine.State {
	if engine.IsLineEndingOrEOF(code) {
		f.t.Exit(mdevent.TypeMathFlowValue)
		return f.beforeContentChunk(code)
	}
	f.t.Consume(code)
	return f.contentChunk
}

func (f *flowDollar) after(code engine.Code) engine.State {
	f.t.Exit(mdevent.TypeMathFlow)
	return f.ok(code)
}

func (f *flowDollar) tokenizeClosingFence(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	size := 0

	afterSequence := func(code engine.Code) engine.State {
		if engine.IsLineEndingOrEOF(code) {
			t.Exit(mdevent.TypeMathFlowFence)
			return ok(code)
		}
		return nok(code)
	}

	var sequence engine.State
	sequence = func(code engine.Code) engine.State {
		if code == engine.Dollar {
			size++
			t.Consume(code)
			return sequence
		}
		if size < f.sizeOpen {
			return nok(code)
		}
		t.Exit(mdevent.TypeMathFlowFenceSequence)
		return engine.Space(t, afterSequence, mdevent.TypeWhitespace, 0)(code)
	}

	beforeSequence := func(code engine.Code) engine.State {
		if code != engine.Dollar {
			return nok(code)
		}
		t.Enter(mdevent.TypeMathFlowFence)
		t.Enter(mdevent.TypeMathFlowFenceSequence)
		return sequence(code)
	}

	return engine.Space(t, beforeSequence, mdevent.TypeLinePrefix, closingIndent(t))
}
