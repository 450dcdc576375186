package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/parser"
	"github.com/yaklabco/mdmath/pkg/reporter"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// checkFlags are the flags shared by check and watch.
type checkFlags struct {
	parse parseFlags

	format         string
	jobs           int
	golden         bool
	update         bool
	fix            bool
	ignore         []string
	include        []string
	extensions     []string
	includeVendor  bool
	followSymlinks bool
	strict         bool
	noContext      bool
	noSummary      bool
	compact        bool
	perFile        bool
	summaryOrder   string
}

const checkLongDescription = `Check Markdown files for math that will not render the way it looks.

By default, checks every Markdown file in the current directory and its
subdirectories. Specify paths to check specific files or directories.

With --golden, each file's parse trace is compared with the recorded
<file>.trace next to it; --update records the traces instead.

Examples:
  mdmath check                      # Check current directory
  mdmath check docs/                # Check docs directory
  mdmath check README.md            # Check a single file
  mdmath check --golden             # Fail when a trace changed
  mdmath check --golden -f diff     # Show how the traces changed
  mdmath check --update             # Record the current traces
  mdmath check --fix                # Close unclosed blocks, move dropped text
  mdmath check --format sarif       # Output SARIF for code scanning`

func newCheckCommand(global *globalFlags, info BuildInfo) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Markdown files for math problems",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newCheckSession(cmd, global, flags, info)
			if err != nil {
				return err
			}

			result, err := session.run(cmd.Context(), args)
			if err != nil {
				return err
			}
			return errorForExitCode(ExitCodeFromResult(result, flags.strict))
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&flags.format, "format", "f", "", "output format: text, table, json, sarif, diff, summary")
	fs.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	fs.BoolVar(&flags.golden, "golden", false, "compare parse traces with recorded <file>.trace files")
	fs.BoolVar(&flags.update, "update", false, "record parse traces to <file>.trace files")
	fs.BoolVar(&flags.fix, "fix", false, "rewrite files to fix issues that have an automatic fix")
	fs.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	fs.StringSliceVar(&flags.include, "include", nil, "only check files matching these glob patterns")
	fs.StringSliceVar(&flags.extensions, "extensions", nil, "file extensions treated as Markdown")
	flags.parse.register(cmd)
	fs.BoolVar(&flags.includeVendor, "include-vendor", false, "descend into vendored directories")
	fs.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symlinked directories")
	fs.BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	fs.BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	fs.BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")
	fs.BoolVar(&flags.compact, "compact", false, "use compact output format")
	fs.BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	fs.StringVar(&flags.summaryOrder, "summary-order", string(config.SummaryOrderChecks),
		"order of tables in summary output: checks, files")
}

// cliConfig builds the command-line configuration layer. Only flags the user
// set are copied, so lower layers keep their values otherwise.
func (f *checkFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Format:       config.OutputFormat(f.format),
		Jobs:         f.jobs,
		Golden:       f.golden,
		UpdateGolden: f.update,
		Fix:          f.fix,
	}

	f.parse.apply(cmd, cfg)

	changed := cmd.Flags().Changed
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("extensions") {
		cfg.Extensions = f.extensions
	}
	return cfg
}

// checkSession holds what a check run needs once configuration is resolved.
// The watch command reuses one session across runs.
type checkSession struct {
	cfg      *config.Config
	runner   *runner.Runner
	reporter reporter.Reporter
	opts     runner.Options
}

func newCheckSession(cmd *cobra.Command, global *globalFlags, flags *checkFlags, info BuildInfo) (*checkSession, error) {
	ctx := commandContext(cmd)

	// A bad --format is a usage error; one from a config file or the
	// environment is reported by the loader as a configuration error.
	if flags.format != "" {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}
	order := config.SummaryOrder(flags.summaryOrder)
	if !order.IsValid() {
		return nil, fmt.Errorf("%w: unknown summary order %q", ErrUsage, flags.summaryOrder)
	}

	workDir, err := workingDir()
	if err != nil {
		return nil, err
	}

	cfg, err := global.loadConfig(ctx, workDir, flags.cliConfig(cmd))
	if err != nil {
		return nil, err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        global.color,
		ShowContext:  !flags.noContext,
		ShowSummary:  !flags.noSummary,
		GroupByFile:  true,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		SummaryOrder: order,
		WorkingDir:   workDir,
		ToolVersion:  info.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	logging.FromContext(ctx).Debug("configuration loaded",
		logging.FieldFormat, format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldGolden, cfg.Golden,
		logging.FieldUpdate, cfg.UpdateGolden,
	)

	return &checkSession{
		cfg:      cfg,
		runner:   runner.New(parser.New(parser.OptionsFromConfig(cfg))),
		reporter: rep,
		opts: runner.Options{
			WorkingDir:     workDir,
			Extensions:     cfg.Extensions,
			IncludeGlobs:   flags.include,
			ExcludeGlobs:   cfg.Ignore,
			IncludeVendor:  flags.includeVendor,
			FollowSymlinks: flags.followSymlinks,
			Jobs:           cfg.Jobs,
			Config:         cfg,
		},
	}, nil
}

// run discovers and checks paths, then reports the result.
func (s *checkSession) run(ctx context.Context, paths []string) (*runner.Result, error) {
	opts := s.opts
	opts.Paths = paths

	logger := logging.FromContext(ctx)
	logger.Debug("starting check run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	started := time.Now()
	result, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return result, s.report(ctx, result, time.Since(started))
}

func (s *checkSession) report(ctx context.Context, result *runner.Result, elapsed time.Duration) error {
	logging.FromContext(ctx).Debug("check run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldMathBlocks, result.Stats.MathBlocks,
		logging.FieldMathInline, result.Stats.MathInline,
		logging.FieldDuration, elapsed,
	)

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", ErrIO, err)
	}
	return nil
}
