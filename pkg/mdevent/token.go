package mdevent

import "fmt"

// TokenType labels a span in the parse trace.
type TokenType uint16

// Token types produced by the math tokenizers and by the host parser.
const (
	TypeData TokenType = iota
	TypeLineEnding
	TypeLineEndingBlank
	TypeLinePrefix
	TypeWhitespace
	TypeSpace

	TypeBlockQuote
	TypeBlockQuotePrefix
	TypeParagraph
	TypeCharacterEscape
	TypeEscapeMarker
	TypeCharacterEscapeValue
	TypeCodeIndented
	TypeCodeFlowValue

	TypeMathFlow              // whole block construct
	TypeMathFlowFence         // fence line: sequence, meta and trailing content
	TypeMathFlowFenceSequence // `\[`, `\]`, `$$`
	TypeMathFlowFenceMeta     // text after an opening `$$`
	TypeMathFlowFenceTrailing // anything after `\]` on the closing line
	TypeMathFlowValue
	TypeMathText
	TypeMathTextSequence
	TypeMathTextData
	TypeMathTextPadding
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenTypeNames = [...]string{
	TypeData:                  "data",
	TypeLineEnding:            "lineEnding",
	TypeLineEndingBlank:       "lineEndingBlank",
	TypeLinePrefix:            "linePrefix",
	TypeWhitespace:            "whitespace",
	TypeSpace:                 "space",
	TypeBlockQuote:            "blockQuote",
	TypeBlockQuotePrefix:      "blockQuotePrefix",
	TypeParagraph:             "paragraph",
	TypeCharacterEscape:       "characterEscape",
	TypeEscapeMarker:          "escapeMarker",
	TypeCharacterEscapeValue:  "characterEscapeValue",
	TypeCodeIndented:          "codeIndented",
	TypeCodeFlowValue:         "codeFlowValue",
	TypeMathFlow:              "mathFlow",
	TypeMathFlowFence:         "mathFlowFence",
	TypeMathFlowFenceSequence: "mathFlowFenceSequence",
	TypeMathFlowFenceMeta:     "mathFlowFenceMeta",
	TypeMathFlowFenceTrailing: "mathFlowFenceTrailing",
	TypeMathFlowValue:         "mathFlowValue",
	TypeMathText:              "mathText",
	TypeMathTextSequence:      "mathTextSequence",
	TypeMathTextData:          "mathTextData",
	TypeMathTextPadding:       "mathTextPadding",
}

// String returns the trace name of the token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", uint16(t))
}

// MarshalText encodes the type by name so JSON traces stay readable.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTokenType looks a token type up by its trace name.
func ParseTokenType(name string) (TokenType, bool) {
	for typ, typeName := range tokenTypeNames {
		if typeName == name {
			return TokenType(typ), true
		}
	}
	return 0, false
}

// Token is a labeled, half-open span [Start, End) of the source.
// The enter and exit events of a span share one *Token, so retyping or
// extending it is visible through both.
type Token struct {
	Type  TokenType `json:"type"`
	Start Point     `json:"start"`
	End   Point     `json:"end"`
}

// Text returns the source text of this token from the given content.
func (t *Token) Text(content []byte) []byte {
	if t.Start.Offset < 0 || t.End.Offset > len(content) || t.Start.Offset > t.End.Offset {
		return nil
	}
	return content[t.Start.Offset:t.End.Offset]
}

// Len returns the length of this token in bytes.
func (t *Token) Len() int {
	return t.End.Offset - t.Start.Offset
}

// IsEmpty returns true if this token has zero length.
func (t *Token) IsEmpty() bool {
	return t.Start.Offset == t.End.Offset
}

// Range returns the byte range of the token.
func (t *Token) Range() SourceRange {
	return SourceRange{StartOffset: t.Start.Offset, EndOffset: t.End.Offset}
}

// EventKind tells whether an event opens or closes a span.
type EventKind uint8

const (
	Enter EventKind = iota + 1
	Exit
)

// String returns "enter" or "exit".
func (k EventKind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	default:
		return "invalid"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one entry of the parse trace.
type Event struct {
	Kind  EventKind `json:"kind"`
	Token *Token    `json:"token"`
}

// EnterEvent returns the event that opens tok.
func EnterEvent(tok *Token) Event {
	return Event{Kind: Enter, Token: tok}
}

// ExitEvent returns the event that closes tok.
func ExitEvent(tok *Token) Event {
	return Event{Kind: Exit, Token: tok}
}

// Is reports whether the event has the given kind and token type.
func (e Event) Is(kind EventKind, typ TokenType) bool {
	return e.Kind == kind && e.Token != nil && e.Token.Type == typ
}
