package mdevent

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes the trace as plain text, one span per line in enter order,
// indented two spaces per nesting level:
//
//	paragraph 1:1-1:10
//	  data 1:1-1:3 "a "
//
// Leaf spans end with their quoted source text. This is the format of golden
// trace files.
func Dump(w io.Writer, snapshot *Snapshot) error {
	bw := bufio.NewWriter(w)
	events := snapshot.Events
	depth := 0

	for idx, ev := range events {
		if ev.Kind == Exit {
			depth--
			continue
		}

		tok := ev.Token
		fmt.Fprintf(bw, "%s%s %d:%d-%d:%d", strings.Repeat("  ", depth), tok.Type,
			tok.Start.Line, tok.Start.Column, tok.End.Line, tok.End.Column)
		if idx+1 < len(events) && events[idx+1].Token == tok {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Quote(string(tok.Text(snapshot.Content))))
		}
		bw.WriteByte('\n')
		depth++
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("dump trace: %w", err)
	}
	return nil
}

// DumpString returns the Dump output as a string.
func DumpString(snapshot *Snapshot) string {
	var sb strings.Builder
	_ = Dump(&sb, snapshot)
	return sb.String()
}
