package math

import (
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// TextDollar returns inline math delimited by runs of dollar signs. A run of
// one dollar opens only when opts allows single dollar math.
func TextDollar(opts Options) *engine.Construct {
	single := opts.singleDollar()
	return &engine.Construct{
		Name: "mathText",
		Tokenize: func(t *engine.Tokenizer, ok, nok engine.State) engine.State {
			m := &textDollar{t: t, ok: ok, nok: nok, single: single}
			return m.start
		},
		Resolve:  ResolveText,
		Previous: notEscaped(engine.Dollar),
	}
}

type textDollar struct {
	t       *engine.Tokenizer
	ok, nok engine.State
	single  bool

	sizeOpen int
	size     int
	sequence *mdevent.Token
}

func (m *textDollar) start(code engine.Code) engine.State {
	if code != engine.Dollar {
		return m.nok(code)
	}
	m.t.Enter(mdevent.TypeMathText)
	m.t.Enter(mdevent.TypeMathTextSequence)
	return m.sequenceOpen(code)
}

func (m *textDollar) sequenceOpen(code engine.Code) engine.State {
	if code == engine.Dollar {
		m.t.Consume(code)
		m.sizeOpen++
		return m.sequenceOpen
	}
	if m.sizeOpen < 2 && !m.single {
		return m.nok(code)
	}
	m.t.Exit(mdevent.TypeMathTextSequence)
	return m.between(code)
}

func (m *textDollar) between(code engine.Code) engine.State {
	switch {
	case code == engine.EOF:
		return m.nok(code)
	case code == engine.Dollar:
		m.sequence = m.t.Enter(mdevent.TypeMathTextSequence)
		m.size = 0
		return m.sequenceClose(code)
	case code == engine.SpaceCode:
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

func (m *textDollar) data(code engine.Code) engine.State {
	if code == engine.EOF || code == engine.SpaceCode || code == engine.Dollar || engine.IsLineEnding(code) {
		m.t.Exit(mdevent.TypeMathTextData)
		return m.between(code)
	}
	m.t.Consume(code)
	return m.data
}

func (m *textDollar) sequenceClose(code engine.Code) engine.State {
	if code == engine.Dollar {
		m.t.Consume(code)
		m.size++
		return m.sequenceClose
	}

	if m.size == m.sizeOpen {
		m.t.Exit(mdevent.TypeMathTextSequence)
		m.t.Exit(mdevent.TypeMathText)
		return m.ok(code)
	}

	// A run of another length is content.
	m.sequence.Type = mdevent.TypeMathTextData
	return m.data(code)
}
