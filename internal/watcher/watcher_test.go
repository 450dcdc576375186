package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/internal/watcher"
)

func startWatcher(t *testing.T, dir string) <-chan []string {
	t.Helper()

	cfg := watcher.DefaultConfig([]string{dir})
	cfg.Debounce = 50 * time.Millisecond

	w, err := watcher.New(cfg)
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return changes
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("start"), 0o644))

	changes := startWatcher(t, dir)

	for i := range 10 {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("\\(x_%d\\)", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case batch := <-changes:
		assert.Equal(t, []string{path}, batch)
	case <-time.After(time.Second):
		t.Fatal("expected a batch but got timeout")
	}

	select {
	case batch := <-changes:
		t.Fatalf("unexpected second batch: %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_BatchesSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.markdown")

	changes := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(second, []byte("$$x$$"), 0o644))
	require.NoError(t, os.WriteFile(first, []byte("\\[x\\]"), 0o644))

	select {
	case batch := <-changes:
		assert.Equal(t, []string{first, second}, batch)
	case <-time.After(time.Second):
		t.Fatal("expected a batch but got timeout")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "notes.md.trace")

	changes := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(trace, []byte("paragraph 1:1-1:2\n"), 0o644))

	select {
	case batch := <-changes:
		t.Fatalf("unexpected batch for trace file: %v", batch)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	changes := startWatcher(t, dir)

	require.NoError(t, os.Remove(path))

	select {
	case batch := <-changes:
		assert.Equal(t, []string{path}, batch)
	case <-time.After(time.Second):
		t.Fatal("expected a batch but got timeout")
	}
}

func TestWatcher_StopClosesChannel(t *testing.T) {
	t.Parallel()

	w, err := watcher.New(watcher.DefaultConfig([]string{t.TempDir()}))
	require.NoError(t, err)

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "second Stop should be a no-op")

	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	t.Parallel()

	w, err := watcher.New(watcher.DefaultConfig([]string{filepath.Join(t.TempDir(), "missing")}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	_, err = w.Start()
	assert.Error(t, err)
}

func TestWatcher_StartFailureReleasesWatches(t *testing.T) {
	t.Parallel()

	dirs := []string{t.TempDir(), filepath.Join(t.TempDir(), "missing")}
	w, err := watcher.New(watcher.DefaultConfig(dirs))
	require.NoError(t, err)

	_, err = w.Start()
	require.Error(t, err)
	assert.Empty(t, w.WatchList(), "watches added before the failure should be released")
	assert.NoError(t, w.Stop())
}

func TestWatcher_RelativeDirReportsAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	changes := startWatcher(t, ".")

	require.NoError(t, os.WriteFile("notes.md", []byte("\\(x\\)"), 0o644))

	select {
	case batch := <-changes:
		require.Len(t, batch, 1)
		assert.True(t, filepath.IsAbs(batch[0]), "path %q should be absolute", batch[0])
		assert.Equal(t, "notes.md", filepath.Base(batch[0]))
	case <-time.After(time.Second):
		t.Fatal("expected a batch but got timeout")
	}
}

func TestDirs(t *testing.T) {
	t.Parallel()

	dirs, err := watcher.Dirs([]string{"/b/y.md", "/a/x.md", "/b/z.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, dirs)

	_, err = watcher.Dirs(nil)
	assert.ErrorIs(t, err, watcher.ErrNoDirs)
}
