package engine

import "github.com/yaklabco/mdmath/pkg/mdevent"

// State is one step of a tokenizer. It is called with the current code and
// returns the state that handles the next one. A state that returns a
// non-nil state must have consumed the code it was given.
type State func(code Code) State

// TokenizeFunc builds the initial state of a construct. ok and nok are the
// terminal states the construct returns into on success and failure.
type TokenizeFunc func(t *Tokenizer, ok, nok State) State

// ResolveFunc rewrites the events a construct committed. It receives a copy
// of exactly those events and returns their replacement.
type ResolveFunc func(events []mdevent.Event) []mdevent.Event

// PreviousFunc decides whether a construct may start after the given code.
type PreviousFunc func(t *Tokenizer, previous Code) bool

// Construct is a named tokenizer that can be attempted at a position.
type Construct struct {
	Name     string
	Tokenize TokenizeFunc
	Resolve  ResolveFunc
	Previous PreviousFunc

	// Partial constructs are building blocks of other constructs and are
	// never dispatched by the host directly.
	Partial bool
}

// Extension maps leading codes to the constructs that may start with them,
// separately for flow (block) and text (inline) contexts.
type Extension struct {
	Flow map[Code][]*Construct
	Text map[Code][]*Construct
}

// Merge returns an extension holding the constructs of e followed by those of
// other, per leading code.
func (e Extension) Merge(other Extension) Extension {
	return Extension{
		Flow: mergeTable(e.Flow, other.Flow),
		Text: mergeTable(e.Text, other.Text),
	}
}

func mergeTable(base, other map[Code][]*Construct) map[Code][]*Construct {
	out := make(map[Code][]*Construct, len(base)+len(other))
	for code, list := range base {
		out[code] = append([]*Construct(nil), list...)
	}
	for code, list := range other {
		out[code] = append(out[code], list...)
	}
	return out
}

// Skip is a piece of container prefix (such as a block quote marker) that
// the tokenizer steps over after a line ending. Offsets are absolute.
type Skip struct {
	Type  mdevent.TokenType
	Start int
	End   int
}

// Lines is the host's view of container structure, queried per 1-based line.
type Lines interface {
	// Lazy reports whether the line continues a container without repeating
	// its markers.
	Lazy(line int) bool

	// Prefix returns the container prefix pieces to skip on the line, in
	// source order and contiguous from the start of the line.
	Prefix(line int) []Skip
}

// Name of the indented code construct, as accepted by WithDisabled.
const ConstructCodeIndented = "codeIndented"
