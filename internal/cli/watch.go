package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/internal/watcher"
	"github.com/yaklabco/mdmath/pkg/fsutil"
	"github.com/yaklabco/mdmath/pkg/runner"
)

type watchFlags struct {
	check    checkFlags
	debounce time.Duration
}

func newWatchCommand(global *globalFlags, info BuildInfo) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check Markdown files whenever they change",
		Long: `Check Markdown files once, then watch them and re-check each file that
changes until interrupted. Takes the same flags as check.

Directories named on the command line are watched for new files; their
subdirectories are watched only if they held Markdown files at startup.

Examples:
  mdmath watch docs/
  mdmath watch --golden --format diff docs/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newCheckSession(cmd, global, &flags.check, info)
			if err != nil {
				return err
			}
			return session.watch(commandContext(cmd), args, flags.debounce)
		},
	}

	addCheckFlags(cmd, &flags.check)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watcher.DefaultDebounce,
		"quiet period before changed files are re-checked")

	return cmd
}

// watch runs a full check, then re-checks changed files until ctx is done.
func (s *checkSession) watch(ctx context.Context, paths []string, debounce time.Duration) error {
	logger := logging.FromContext(ctx)

	opts := s.opts
	opts.Paths = paths
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	seen := make(map[string]*fsutil.FileInfo, len(files))
	if err := s.recheck(ctx, files, seen); err != nil {
		return err
	}

	dirs := watchDirs(files, paths, opts.WorkingDir)
	if len(dirs) == 0 {
		return fmt.Errorf("%w: %w", ErrUsage, watcher.ErrNoDirs)
	}

	cfg := watcher.DefaultConfig(dirs)
	if len(opts.Extensions) > 0 {
		cfg.Extensions = opts.Extensions
	}
	cfg.Debounce = debounce

	w, err := watcher.New(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	logger.Info("watching for changes", logging.FieldPaths, w.WatchList())

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case err := <-w.Errors():
			logger.Warn("watch error", logging.FieldError, err)

		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("files changed", logging.FieldFiles, batch)

			changed := s.changedFiles(ctx, batch, seen)
			if len(changed) == 0 {
				continue
			}
			if err := s.recheck(ctx, changed, seen); err != nil {
				return err
			}
		}
	}
}

// recheck processes files, reports them and records their state in seen.
func (s *checkSession) recheck(ctx context.Context, files []string, seen map[string]*fsutil.FileInfo) error {
	started := time.Now()
	result := s.runner.RunFiles(ctx, files, s.opts)

	for _, outcome := range result.Files {
		if outcome.Info != nil {
			seen[outcome.Path] = outcome.Info
		}
	}
	return s.report(ctx, result, time.Since(started))
}

// changedFiles narrows a batch to files that still exist, pass discovery
// and differ from what was last checked. Removed files are forgotten.
func (s *checkSession) changedFiles(ctx context.Context, batch []string, seen map[string]*fsutil.FileInfo) []string {
	logger := logging.FromContext(ctx)

	var candidates []string
	for _, path := range batch {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if _, ok := seen[path]; ok {
				delete(seen, path)
				logger.Info("file removed", logging.FieldPath, path)
			}
			continue
		}

		if info, ok := seen[path]; ok {
			changed, err := info.Changed()
			if err != nil {
				logger.Warn("cannot tell if file changed", logging.FieldPath, path, logging.FieldError, err)
			} else if !changed {
				continue
			}
		}
		candidates = append(candidates, path)
	}
	if len(candidates) == 0 {
		return nil
	}

	opts := s.opts
	opts.Paths = candidates
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		logger.Warn("discovery failed", logging.FieldError, err)
		return nil
	}
	return files
}

// watchDirs lists the directories of files plus every directory named in
// paths, resolved against workDir.
func watchDirs(files, paths []string, workDir string) []string {
	dirs, _ := watcher.Dirs(files)

	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Clean(path))
		}
	}
	if len(paths) == 0 && workDir != "" {
		dirs = append(dirs, workDir)
	}

	slices.Sort(dirs)
	return slices.Compact(dirs)
}
