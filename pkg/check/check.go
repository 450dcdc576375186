// Package check inspects parse traces for math that is likely a mistake:
// blocks that never close, inline math that fell back to text, empty math,
// and text the renderer drops.
package check

import (
	"cmp"
	"slices"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fix"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// Diagnostic is a single finding in a file.
type Diagnostic struct {
	// CheckID is the identifier of the check, such as "MM001".
	CheckID string

	// CheckName is the readable name, such as "unclosed-math-block".
	CheckName string

	Message  string
	Severity config.Severity
	FilePath string

	// StartLine and StartColumn are 1-based; the end is exclusive.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Suggestion is an optional hint on how to fix the issue.
	Suggestion string

	// Fix holds the edits that resolve the issue, if it can be fixed
	// automatically.
	Fix []fix.TextEdit
}

// Fixable reports whether the diagnostic carries edits.
func (d *Diagnostic) Fixable() bool {
	return len(d.Fix) > 0
}

// Check is one named inspection.
type Check struct {
	ID              string
	Name            string
	Description     string
	DefaultSeverity config.Severity
	Apply           func(ctx *Context)

	// Fixable is set when the check attaches edits to some diagnostics.
	Fixable bool
}

// Context is what a check sees while it runs.
type Context struct {
	Snapshot *mdevent.Snapshot

	check       *Check
	severity    config.Severity
	diagnostics []Diagnostic
}

// Report records a diagnostic covering tok.
func (ctx *Context) Report(tok *mdevent.Token, message, suggestion string) {
	ctx.ReportFix(tok, message, suggestion)
}

// ReportFix records a diagnostic covering tok that edits can resolve.
func (ctx *Context) ReportFix(tok *mdevent.Token, message, suggestion string, edits ...fix.TextEdit) {
	ctx.diagnostics = append(ctx.diagnostics, Diagnostic{
		CheckID:     ctx.check.ID,
		CheckName:   ctx.check.Name,
		Message:     message,
		Severity:    ctx.severity,
		FilePath:    ctx.Snapshot.Path,
		StartLine:   tok.Start.Line,
		StartColumn: tok.Start.Column,
		EndLine:     tok.End.Line,
		EndColumn:   tok.End.Column,
		Suggestion:  suggestion,
		Fix:         edits,
	})
}

// Run applies every check enabled in cfg to the snapshot. A nil cfg enables
// all checks at their default severity. Diagnostics are ordered by position,
// then by check ID.
func Run(snapshot *mdevent.Snapshot, cfg *config.Config) []Diagnostic {
	var diags []Diagnostic
	for _, c := range All() {
		if !cfg.RuleEnabled(c.Name) || !cfg.RuleEnabled(c.ID) {
			continue
		}
		ctx := &Context{
			Snapshot: snapshot,
			check:    c,
			severity: severity(cfg, c),
		}
		c.Apply(ctx)
		diags = append(diags, ctx.diagnostics...)
	}

	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartLine, b.StartLine),
			cmp.Compare(a.StartColumn, b.StartColumn),
			cmp.Compare(a.CheckID, b.CheckID),
		)
	})
	return diags
}

// severity resolves a check's severity. Per-check configuration may be
// keyed by either the name or the ID.
func severity(cfg *config.Config, c *Check) config.Severity {
	key := c.Name
	if cfg != nil {
		if _, byName := cfg.Rules[c.Name]; !byName {
			if _, byID := cfg.Rules[c.ID]; byID {
				key = c.ID
			}
		}
	}
	return cfg.RuleSeverity(key, c.DefaultSeverity)
}
