package check

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fix"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

//nolint:gochecknoglobals // Built-in checks are immutable descriptors.
var builtin = []*Check{
	{
		ID:              "MM001",
		Name:            "unclosed-math-block",
		Description:     "Math block has no closing fence and runs to the end of the file",
		DefaultSeverity: config.SeverityError,
		Apply:           checkUnclosedBlock,
		Fixable:         true,
	},
	{
		ID:              "MM002",
		Name:            "lazy-math-block",
		Description:     "Math block inside a block quote ends at a line without the quote marker",
		DefaultSeverity: config.SeverityWarning,
		Apply:           checkLazyBlock,
	},
	{
		ID:              "MM003",
		Name:            "unclosed-inline-math",
		Description:     "Inline math opener has no matching closer and renders as text",
		DefaultSeverity: config.SeverityWarning,
		Apply:           checkUnclosedInline,
	},
	{
		ID:              "MM004",
		Name:            "empty-math",
		Description:     "Math contains nothing but whitespace",
		DefaultSeverity: config.SeverityInfo,
		Apply:           checkEmpty,
	},
	{
		ID:              "MM005",
		Name:            "fence-trailing-text",
		Description:     "Text after a closing math fence is dropped when rendering",
		DefaultSeverity: config.SeverityWarning,
		Apply:           checkTrailing,
		Fixable:         true,
	},
}

// All returns the built-in checks ordered by ID.
func All() []*Check {
	return slices.Clone(builtin)
}

// Lookup finds a check by ID or name.
func Lookup(key string) (*Check, bool) {
	for _, c := range builtin {
		if c.ID == key || c.Name == key {
			return c, true
		}
	}
	return nil, false
}

// Infos describes the checks for configuration templates.
func Infos() []config.CheckInfo {
	infos := make([]config.CheckInfo, 0, len(builtin))
	for _, c := range builtin {
		infos = append(infos, config.CheckInfo{
			Name:        c.Name,
			Description: c.Description,
			Severity:    c.DefaultSeverity,
		})
	}
	return infos
}

// blocks calls fn with the index of every math block's enter event.
func blocks(snapshot *mdevent.Snapshot, fn func(open int)) {
	for idx, ev := range snapshot.Events {
		if ev.Is(mdevent.Enter, mdevent.TypeMathFlow) {
			fn(idx)
		}
	}
}

// childTypes counts the direct children of events[open] by type.
func childTypes(events []mdevent.Event, open int) map[mdevent.TokenType]int {
	counts := make(map[mdevent.TokenType]int)
	for _, pair := range mdevent.Children(events, open) {
		counts[events[pair[0]].Token.Type]++
	}
	return counts
}

// opener returns the text of the first fence sequence inside the block.
func opener(snapshot *mdevent.Snapshot, open int) string {
	for _, ev := range snapshot.Events[open+1:] {
		if ev.Is(mdevent.Enter, mdevent.TypeMathFlowFenceSequence) {
			return string(ev.Token.Text(snapshot.Content))
		}
	}
	return ""
}

// closer returns the fence that closes a block opened with seq.
func closer(seq string) string {
	if seq == `\[` {
		return `\]`
	}
	return seq
}

func checkUnclosedBlock(ctx *Context) {
	events := ctx.Snapshot.Events
	blocks(ctx.Snapshot, func(open int) {
		tok := events[open].Token
		if childTypes(events, open)[mdevent.TypeMathFlowFence] >= 2 {
			return
		}
		if tok.End.Offset < len(ctx.Snapshot.Content) {
			return
		}
		seq := opener(ctx.Snapshot, open)

		var edits []fix.TextEdit
		if !inBlockQuote(events, open) {
			content := ctx.Snapshot.Content
			text := closer(seq) + "\n"
			if len(content) > 0 && content[len(content)-1] != '\n' && content[len(content)-1] != '\r' {
				text = "\n" + text
			}
			edits = append(edits, fix.Insert(len(content), text))
		}

		ctx.ReportFix(tok,
			fmt.Sprintf("math block opened with %s is never closed", seq),
			fmt.Sprintf("add a line with %s after the math", closer(seq)),
			edits...)
	})
}

// inBlockQuote reports whether events[idx] is nested in a block quote.
// Fixes are not offered there; new lines would need the quote marker.
func inBlockQuote(events []mdevent.Event, idx int) bool {
	depth := 0
	for _, ev := range events[:idx] {
		if ev.Token.Type != mdevent.TypeBlockQuote {
			continue
		}
		if ev.Kind == mdevent.Enter {
			depth++
		} else {
			depth--
		}
	}
	return depth > 0
}

func checkLazyBlock(ctx *Context) {
	events := ctx.Snapshot.Events
	blocks(ctx.Snapshot, func(open int) {
		tok := events[open].Token
		if childTypes(events, open)[mdevent.TypeMathFlowFence] >= 2 {
			return
		}
		if tok.End.Offset >= len(ctx.Snapshot.Content) {
			return
		}
		ctx.Report(tok,
			"math block ends at a line that is not part of the block quote",
			"start every line of the block with the quote marker")
	})
}

func checkUnclosedInline(ctx *Context) {
	events := ctx.Snapshot.Events
	content := ctx.Snapshot.Content
	for idx, ev := range events {
		if !ev.Is(mdevent.Enter, mdevent.TypeCharacterEscape) {
			continue
		}
		text := ev.Token.Text(content)
		if !bytes.Equal(text, []byte(`\(`)) {
			continue
		}
		if !hasLater(events[idx:], content, `\)`) {
			ctx.Report(ev.Token, `inline math opened with \( is never closed`,
				`close it with \) in the same paragraph, or write \\( for a literal`)
		}
	}
}

// hasLater reports whether an escape with the given text follows in the same
// paragraph.
func hasLater(events []mdevent.Event, content []byte, text string) bool {
	for _, ev := range events[1:] {
		if ev.Is(mdevent.Exit, mdevent.TypeParagraph) {
			return false
		}
		if ev.Is(mdevent.Enter, mdevent.TypeCharacterEscape) && string(ev.Token.Text(content)) == text {
			return true
		}
	}
	return false
}

func checkEmpty(ctx *Context) {
	events := ctx.Snapshot.Events
	content := ctx.Snapshot.Content
	for idx, ev := range events {
		if ev.Kind != mdevent.Enter {
			continue
		}
		switch ev.Token.Type {
		case mdevent.TypeMathFlow:
			if !hasText(events, idx, content, mdevent.TypeMathFlowValue) {
				ctx.Report(ev.Token, "math block is empty", "")
			}
		case mdevent.TypeMathText:
			if !hasText(events, idx, content, mdevent.TypeMathTextData) {
				ctx.Report(ev.Token, "inline math is empty", "")
			}
		}
	}
}

// hasText reports whether the span at events[open] contains a span of typ
// with something other than whitespace.
func hasText(events []mdevent.Event, open int, content []byte, typ mdevent.TokenType) bool {
	closing := mdevent.Closing(events, open)
	for _, ev := range events[open+1 : closing] {
		if ev.Is(mdevent.Enter, typ) && strings.TrimSpace(string(ev.Token.Text(content))) != "" {
			return true
		}
	}
	return false
}

func checkTrailing(ctx *Context) {
	content := ctx.Snapshot.Content
	events := ctx.Snapshot.Events
	for idx, ev := range events {
		if !ev.Is(mdevent.Enter, mdevent.TypeMathFlowFenceTrailing) {
			continue
		}
		text := string(ev.Token.Text(content))
		if strings.TrimSpace(text) == "" {
			continue
		}

		var edits []fix.TextEdit
		if !inBlockQuote(events, idx) {
			edits = append(edits, fix.Replace(ev.Token.Start.Offset, ev.Token.End.Offset,
				"\n"+strings.TrimLeft(text, " \t")))
		}
		ctx.ReportFix(ev.Token, "text after the closing fence is not rendered",
			"move the text to its own line", edits...)
	}
}
