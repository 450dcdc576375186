package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fix"
	"github.com/yaklabco/mdmath/pkg/fsutil"
	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// Runner parses files, runs the checks on them and optionally compares or
// records their golden traces.
type Runner struct {
	Parser *parser.Parser
}

// New creates a Runner that parses with p.
func New(p *parser.Parser) *Runner {
	return &Runner{Parser: p}
}

// Run discovers files under opts.Paths and processes them on a worker pool.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts), ctxErr(ctx)
}

// RunFiles processes an explicit list of files, skipping discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) *Result {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Go(func() {
			r.worker(ctx, workCh, outCh, opts.Config)
		})
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	return result
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, cfg *config.Config) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.ProcessFile(ctx, path, cfg)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile reads, parses and checks a single file.
func (r *Runner) ProcessFile(ctx context.Context, path string, cfg *config.Config) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info

	snapshot, err := r.Parser.Parse(ctx, path, content)
	if err != nil {
		outcome.Error = fmt.Errorf("parse %s: %w", path, err)
		return outcome
	}
	outcome.Snapshot = snapshot
	outcome.Diagnostics = check.Run(snapshot, cfg)

	if cfg != nil && cfg.Fix {
		if err := r.fix(ctx, &outcome, content, cfg); err != nil {
			outcome.Error = err
			return outcome
		}
	}

	switch {
	case cfg != nil && cfg.UpdateGolden:
		outcome.Golden, err = golden.Update(ctx, snapshot)
	case cfg != nil && cfg.Golden:
		outcome.Golden, err = golden.Compare(ctx, snapshot)
	}
	if err != nil {
		outcome.Error = err
	}
	return outcome
}

// fix applies the edits of the outcome's diagnostics, writes the file back
// and re-checks it, so the outcome describes the fixed file.
func (r *Runner) fix(ctx context.Context, outcome *FileOutcome, content []byte, cfg *config.Config) error {
	var edits []fix.TextEdit
	for _, diag := range outcome.Diagnostics {
		edits = append(edits, diag.Fix...)
	}
	if len(edits) == 0 {
		return nil
	}

	fixed, applied, err := fix.Apply(content, edits)
	if err != nil {
		return fmt.Errorf("fix %s: %w", outcome.Path, err)
	}
	if err := fsutil.WriteAtomic(ctx, outcome.Path, fixed, outcome.Info.Mode.Perm()); err != nil {
		return fmt.Errorf("fix %s: %w", outcome.Path, err)
	}

	content, info, err := fsutil.ReadFile(ctx, outcome.Path)
	if err != nil {
		return err
	}
	snapshot, err := r.Parser.Parse(ctx, outcome.Path, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", outcome.Path, err)
	}

	outcome.Info = info
	outcome.Snapshot = snapshot
	outcome.Diagnostics = check.Run(snapshot, cfg)
	outcome.Fixed = applied
	return nil
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return nil
}
