// Package parser is the host Markdown parser for the math constructs. It
// handles block quotes, blank lines, indented code, paragraphs, character
// escapes and plain text, and dispatches to extension constructs by leading
// code in flow and text contexts.
package parser

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/engine"
	"github.com/yaklabco/mdmath/pkg/math"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// ErrInvalidTrace is returned when a parse produces events that break the
// trace invariants.
var ErrInvalidTrace = errors.New("invalid trace")

// Options configures a Parser.
type Options struct {
	// Math configures the math constructs.
	Math math.Options

	// Disable lists construct names to turn off, such as "codeIndented" or
	// "mathFlowLatex".
	Disable []string
}

// OptionsFromConfig extracts parser options from cfg. A nil cfg yields the
// defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{Math: cfg.Math, Disable: slices.Clone(cfg.Disable)}
}

// Constructs lists the construct names Options.Disable accepts.
func Constructs() []string {
	return []string{engine.ConstructCodeIndented, "mathFlow", "mathFlowLatex", "mathText", "mathTextLatex"}
}

// Parser turns Markdown into a parse trace. A Parser is immutable and may be
// shared between goroutines; each Parse call owns its own tokenizer.
type Parser struct {
	disable []string
	ext     engine.Extension
}

// New creates a parser with the math constructs installed.
func New(opts Options) *Parser {
	return &Parser{
		disable: slices.Clone(opts.Disable),
		ext:     math.New(opts.Math),
	}
}

// Parse tokenizes content and returns its snapshot.
//
// Returns nil and an error if the context is cancelled or the resulting
// trace is malformed.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*mdevent.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := mdevent.NewSnapshot(path, copyContent(content))

	doc := newDocument(p, snapshot)
	doc.run()
	snapshot.Events = mergeData(doc.t.Events())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	if err := mdevent.Validate(snapshot.Events); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrace, err)
	}
	if !mdevent.Covers(mdevent.Leaves(snapshot.Events), 0, len(snapshot.Content)) {
		return nil, fmt.Errorf("%w: spans do not cover content", ErrInvalidTrace)
	}

	return snapshot, nil
}

// copyContent creates a copy of the content to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}

// mergeData joins data spans that directly follow each other.
func mergeData(events []mdevent.Event) []mdevent.Event {
	out := make([]mdevent.Event, 0, len(events))
	for idx := 0; idx < len(events); idx++ {
		ev := events[idx]
		if ev.Is(mdevent.Enter, mdevent.TypeData) && idx+1 < len(events) && len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Is(mdevent.Exit, mdevent.TypeData) && prev.Token.End.Offset == ev.Token.Start.Offset {
				prev.Token.End = ev.Token.End
				idx++ // its exit
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}
