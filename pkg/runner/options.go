// Package runner parses and checks many Markdown files concurrently.
package runner

import "github.com/yaklabco/mdmath/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to process. Empty means the
	// working directory.
	Paths []string

	// WorkingDir resolves relative Paths and anchors glob patterns.
	// Empty means the process working directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, that
	// count as Markdown. Empty means every extension go-enry attributes to
	// Markdown.
	Extensions []string

	// IncludeGlobs, when set, restrict discovery to matching files.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories. "**" crosses
	// directory boundaries; "*" does not.
	ExcludeGlobs []string

	// IncludeVendor walks directories go-enry classifies as vendored, such
	// as node_modules.
	IncludeVendor bool

	// FollowSymlinks walks symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of workers. Zero or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for the run.
	Config *config.Config
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
