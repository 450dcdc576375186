package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/gobwas/glob"
)

// markdownLanguage is the go-enry name for Markdown.
const markdownLanguage = "Markdown"

// Discover finds Markdown files under opts.Paths. It returns sorted,
// deduplicated absolute paths. Files named explicitly are kept even if they
// are hidden or vendored, as long as their extension and the globs match.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	d, err := newDiscoverer(opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(d.workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if d.acceptFile(abs) {
				d.add(abs)
			}
			continue
		}
		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir        string
	extensions     []string
	include        []glob.Glob
	exclude        []glob.Glob
	includeVendor  bool
	followSymlinks bool

	seen  map[string]struct{}
	files []string
}

func newDiscoverer(opts Options) (*discoverer, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	exts := make([]string, 0, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts = append(exts, strings.ToLower(ext))
	}

	return &discoverer{
		workDir:        workDir,
		extensions:     exts,
		include:        include,
		exclude:        exclude,
		includeVendor:  opts.IncludeVendor,
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]struct{}),
	}, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && d.skipDir(path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if enry.IsDotFile(entry.Name()) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveSymlink(path)
			if !ok {
				return nil
			}
			if target.IsDir() {
				if !d.followSymlinks {
					return nil
				}
				dir, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // A dangling link is skipped like a missing file.
				}
				return d.walk(ctx, dir)
			}
		}

		if d.acceptFile(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// resolveSymlink stats the target of a symlink. It reports false for dangling
// links.
func resolveSymlink(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

// skipDir reports whether a directory below a walk root is pruned: hidden
// directories, vendored directories and excluded paths.
func (d *discoverer) skipDir(path, name string) bool {
	if enry.IsDotFile(name) {
		return true
	}
	rel := d.rel(path)
	if !d.includeVendor && enry.IsVendor(rel+"/") {
		return true
	}
	return matchAny(d.exclude, rel) || matchAny(d.exclude, rel+"/")
}

func (d *discoverer) acceptFile(path string) bool {
	if !d.isMarkdown(path) {
		return false
	}
	rel := d.rel(path)
	if matchAny(d.exclude, rel) || matchAny(d.exclude, filepath.Base(rel)) {
		return false
	}
	if len(d.include) > 0 {
		return matchAny(d.include, rel) || matchAny(d.include, filepath.Base(rel))
	}
	return true
}

// isMarkdown matches the configured extensions, or asks go-enry when none
// are configured. go-enry lists several languages for ".md", so membership
// is enough.
func (d *discoverer) isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if len(d.extensions) > 0 {
		return slices.Contains(d.extensions, ext)
	}
	if ext == "" {
		return false
	}
	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), markdownLanguage)
}

// rel returns path relative to the working directory with forward slashes.
func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
