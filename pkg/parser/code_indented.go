package parser

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// codeIndentSize is the Space bound that admits an indented code prefix of
// four columns.
const codeIndentSize = 4

// codeIndented is code indented by four or more columns. Trailing blank lines
// are left to the flow loop.
//
//nolint:gochecknoglobals // Constructs are immutable descriptors.
var codeIndented = &engine.Construct{
	Name:     engine.ConstructCodeIndented,
	Tokenize: tokenizeCodeIndented,
}

//nolint:gochecknoglobals // Constructs are immutable descriptors.
var codeIndentedFurther = &engine.Construct{
	Name:     "codeIndentedFurther",
	Tokenize: tokenizeCodeIndentedFurther,
	Partial:  true,
}

func tokenizeCodeIndented(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	var atBreak, inside engine.State

	after := func(code engine.Code) engine.State {
		t.Exit(mdevent.TypeCodeIndented)
		return ok(code)
	}

	inside = func(code engine.Code) engine.State {
		if engine.IsLineEndingOrEOF(code) {
			t.Exit(mdevent.TypeCodeFlowValue)
			return atBreak(code)
		}
		t.Consume(code)
		return inside
	}

	atBreak = func(code engine.Code) engine.State {
		if code == engine.EOF {
			return after(code)
		}
		if engine.IsLineEnding(code) {
			return t.Attempt(codeIndentedFurther, atBreak, after)(code)
		}
		t.Enter(mdevent.TypeCodeFlowValue)
		return inside(code)
	}

	afterPrefix := func(code engine.Code) engine.State {
		if !hasIndentPrefix(t) || engine.IsLineEndingOrEOF(code) {
			return nok(code)
		}
		return atBreak(code)
	}

	return func(code engine.Code) engine.State {
		if t.Lazy(t.Now().Line) {
			return nok(code)
		}
		t.Enter(mdevent.TypeCodeIndented)
		return engine.Space(t, afterPrefix, mdevent.TypeLinePrefix, codeIndentSize+1)(code)
	}
}

// tokenizeCodeIndentedFurther accepts line endings and blank lines up to the
// next line that is still indented enough.
func tokenizeCodeIndentedFurther(t *engine.Tokenizer, ok, nok engine.State) engine.State {
	var furtherStart engine.State

	afterPrefix := func(code engine.Code) engine.State {
		if hasIndentPrefix(t) && !engine.IsLineEndingOrEOF(code) {
			return ok(code)
		}
		if engine.IsLineEnding(code) {
			return furtherStart(code)
		}
		return nok(code)
	}

	furtherStart = func(code engine.Code) engine.State {
		if t.Lazy(t.Now().Line) {
			return nok(code)
		}
		if engine.IsLineEnding(code) {
			t.Enter(mdevent.TypeLineEnding)
			t.Consume(code)
			t.Exit(mdevent.TypeLineEnding)
			return furtherStart
		}
		return engine.Space(t, afterPrefix, mdevent.TypeLinePrefix, codeIndentSize+1)(code)
	}

	return furtherStart
}

// hasIndentPrefix reports whether the last span is a line prefix of at
// least four columns, with tabs advancing to the next multiple of four.
func hasIndentPrefix(t *engine.Tokenizer) bool {
	events := t.Events()
	if len(events) == 0 {
		return false
	}
	tail := events[len(events)-1]
	if !tail.Is(mdevent.Exit, mdevent.TypeLinePrefix) {
		return false
	}

	width := 0
	for _, b := range tail.Token.Text(t.Source()) {
		if b == '\t' {
			width += codeIndentSize - width%codeIndentSize
			continue
		}
		width++
	}
	return width >= codeIndentSize
}
