// Package golden keeps recorded parse traces next to Markdown sources and
// compares fresh traces against them. A trace file holds the output of
// mdevent.Dump for the source it sits beside.
package golden

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/mdmath/pkg/fsutil"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

// Extension is appended to a source path to name its trace file.
const Extension = ".trace"

// Status is the outcome of checking one file against its trace.
type Status int

const (
	// StatusMatch means the recorded trace equals the current one.
	StatusMatch Status = iota

	// StatusMismatch means the traces differ; Result.Diff holds the changes.
	StatusMismatch

	// StatusMissing means no trace has been recorded.
	StatusMissing

	// StatusUpdated means the trace file was written.
	StatusUpdated
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusMismatch:
		return "mismatch"
	case StatusMissing:
		return "missing"
	case StatusUpdated:
		return "updated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes how a snapshot compares to its trace file.
type Result struct {
	// Path is the trace file path.
	Path   string
	Status Status

	// Diff is set for StatusMismatch.
	Diff *Diff
}

// Failed reports whether the result should fail a check run.
func (r *Result) Failed() bool {
	return r != nil && (r.Status == StatusMismatch || r.Status == StatusMissing)
}

// Path returns the trace file path for a source file.
func Path(source string) string {
	return source + Extension
}

// Compare checks snapshot against the trace recorded for snapshot.Path.
func Compare(ctx context.Context, snapshot *mdevent.Snapshot) (*Result, error) {
	path := Path(snapshot.Path)
	want, _, err := fsutil.ReadFile(ctx, path)
	if errors.Is(err, fsutil.ErrNotFound) {
		return &Result{Path: path, Status: StatusMissing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("golden: %w", err)
	}

	diff := LineDiff(path, string(want), mdevent.DumpString(snapshot))
	if !diff.HasChanges() {
		return &Result{Path: path, Status: StatusMatch}, nil
	}
	return &Result{Path: path, Status: StatusMismatch, Diff: diff}, nil
}

// Update records the trace of snapshot, leaving the file alone when it
// already matches.
func Update(ctx context.Context, snapshot *mdevent.Snapshot) (*Result, error) {
	path := Path(snapshot.Path)
	wrote, err := fsutil.WriteIfChanged(ctx, path, []byte(mdevent.DumpString(snapshot)), fsutil.DefaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("golden: %w", err)
	}
	if wrote {
		return &Result{Path: path, Status: StatusUpdated}, nil
	}
	return &Result{Path: path, Status: StatusMatch}, nil
}
