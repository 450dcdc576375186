package reporter

import (
	"context"

	"github.com/yaklabco/mdmath/pkg/analysis"
)

// Renderer formats an analysis.Report. Renderers only present; counting is
// done once by analysis.Analyze.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}
