package math

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// TextLatex returns inline math delimited by `\(` and `\)`, and by `\[` and
// `\]` when opts.InlineDisplay is set.
func TextLatex(opts Options) *engine.Construct {
	return &engine.Construct{
		Name: "mathTextLatex",
		Tokenize: func(t *engine.Tokenizer, ok, nok engine.State) engine.State {
			m := &textLatex{t: t, ok: ok, nok: nok, display: opts.InlineDisplay}
			return m.start
		},
		Resolve:  ResolveText,
		Previous: notEscaped(engine.Backslash),
	}
}

// notEscaped refuses to start right after marker, unless that marker was the
// value of a character escape.
func notEscaped(marker engine.Code) engine.PreviousFunc {
	return func(t *engine.Tokenizer, previous engine.Code) bool {
		if previous != marker {
			return true
		}
		events := t.Events()
		return len(events) > 0 && events[len(events)-1].Is(mdevent.Exit, mdevent.TypeCharacterEscape)
	}
}

type textLatex struct {
	t       *engine.Tokenizer
	ok, nok engine.State

	display bool
	closing engine.Code

	// sequence is the speculative closing span; it becomes data when the
	// backslash turns out not to close.
	sequence *mdevent.Token
}

func (m *textLatex) start(code engine.Code) engine.State {
	if code != engine.Backslash {
		return m.nok(code)
	}
	m.t.Enter(mdevent.TypeMathText)
	m.t.Enter(mdevent.TypeMathTextSequence)
	m.t.Consume(code)
	return m.openParen
}

func (m *textLatex) openParen(code engine.Code) engine.State {
	switch {
	case code == '(':
		m.closing = ')'
	case code == '[' && m.display:
		m.closing = ']'
	default:
		return m.nok(code)
	}
	m.t.Consume(code)
	m.t.Exit(mdevent.TypeMathTextSequence)
	return m.between
}

func (m *textLatex) between(code engine.Code) engine.State {
	switch {
	case code == engine.EOF:
		return m.nok(code)
	case code == engine.Backslash:
		m.sequence = m.t.Enter(mdevent.TypeMathTextSequence)
		m.t.Consume(code)
		return m.closingBackslash
	case code == engine.SpaceCode:
		// Tabs are data.
		m.t.Enter(mdevent.TypeSpace)
		m.t.Consume(code)
		m.t.Exit(mdevent.TypeSpace)
		return m.between
	case engine.IsLineEnding(code):
		m.t.Enter(mdevent.TypeLineEnding)
		m.t.Consume(code)
		m.t.Exit(mdevent.TypeLineEnding)
		return m.between
	default:
		m.t.Enter(mdevent.TypeMathTextData)
		return m.data(code)
	}
}

func (m *textLatex) data(code engine.Code) engine.State {
	if code == engine.EOF || code == engine.SpaceCode || code == engine.Backslash || engine.IsLineEnding(code) {
		m.t.Exit(mdevent.TypeMathTextData)
		return m.between(code)
	}
	m.t.Consume(code)
	return m.data
}

func (m *textLatex) closingBackslash(code engine.Code) engine.State {
	if code == m.closing {
		m.t.Consume(code)
		m.t.Exit(mdevent.TypeMathTextSequence)
		m.t.Exit(mdevent.TypeMathText)
		return m.ok
	}

	m.sequence.Type = mdevent.TypeMathTextData
	return m.data(code)
}
