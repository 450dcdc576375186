package engine

import (
	"fmt"

	"github.com/yuin/goldmark/util"
)

// Code is one decoded character of the input: a Unicode code point, or one
// of the negative sentinels below.
type Code int32

const (
	// EOF is reported once the input (or the current limit) is exhausted.
	EOF Code = -1

	// CRLF is a carriage return directly followed by a line feed, decoded as
	// a single two-byte code.
	CRLF Code = -3
)

// Frequently compared ASCII codes.
const (
	Tab       Code = '\t'
	LF        Code = '\n'
	CR        Code = '\r'
	SpaceCode Code = ' '
	Backslash Code = '\\'
	Dollar    Code = '$'
)

// String returns a readable form of the code for panics and debug logs.
func (c Code) String() string {
	switch c {
	case EOF:
		return "EOF"
	case CRLF:
		return "CRLF"
	case LF:
		return `"\n"`
	case CR:
		return `"\r"`
	default:
		return fmt.Sprintf("%q", rune(c))
	}
}

// IsLineEnding reports whether c ends a line (LF, CR or CRLF).
func IsLineEnding(c Code) bool {
	return c == LF || c == CR || c == CRLF
}

// IsLineEndingOrEOF reports whether c ends a line or the input.
func IsLineEndingOrEOF(c Code) bool {
	return c == EOF || IsLineEnding(c)
}

// IsSpaceOrTab reports whether c is horizontal whitespace.
func IsSpaceOrTab(c Code) bool {
	return c == SpaceCode || c == Tab
}

// IsASCIIPunctuation reports whether c may be backslash-escaped.
func IsASCIIPunctuation(c Code) bool {
	return c >= 0 && c < 0x80 && util.IsPunct(byte(c))
}
