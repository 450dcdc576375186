// Package reporter writes check results in the supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdmath/pkg/analysis"
	"github.com/yaklabco/mdmath/pkg/runner"
)

var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes output for result and returns the number of issues
	// reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade adapts a Renderer to the Reporter interface.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report analyzes result and renders the report.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.WorkingDir = opts.WorkingDir
	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

// New creates a Reporter for the format in opts.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatJSON:
		return newRendererFacade(NewJSONRenderer(opts), opts), nil
	case FormatSARIF:
		return newRendererFacade(NewSARIFRenderer(opts), opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
