package golden_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/golden"
	"github.com/yaklabco/mdmath/pkg/mdevent"
	"github.com/yaklabco/mdmath/pkg/parser"
)

func parse(t *testing.T, path, src string) *mdevent.Snapshot {
	t.Helper()

	snapshot, err := parser.New(parser.Options{}).Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return snapshot
}

func TestCompareAndUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := filepath.Join(t.TempDir(), "doc.md")
	snapshot := parse(t, source, "a \\(x\\) b\n")

	res, err := golden.Compare(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, golden.StatusMissing, res.Status)
	assert.True(t, res.Failed())
	assert.Equal(t, source+".trace", res.Path)

	res, err = golden.Update(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, golden.StatusUpdated, res.Status)

	recorded, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, mdevent.DumpString(snapshot), string(recorded))

	res, err = golden.Update(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, golden.StatusMatch, res.Status)

	res, err = golden.Compare(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, golden.StatusMatch, res.Status)
	assert.False(t, res.Failed())
	assert.Nil(t, res.Diff)

	changed := parse(t, source, "a \\(y\\) b\n")
	res, err = golden.Compare(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, golden.StatusMismatch, res.Status)
	assert.True(t, res.Failed())
	require.True(t, res.Diff.HasChanges())
	assert.Contains(t, res.Diff.String(), `-    mathTextData 1:5-1:6 "x"`)
	assert.Contains(t, res.Diff.String(), `+    mathTextData 1:5-1:6 "y"`)
}

func TestCompare_ReadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "doc.md")
	require.NoError(t, os.Mkdir(golden.Path(source), 0o755))

	_, err := golden.Compare(context.Background(), parse(t, source, "x"))
	require.Error(t, err)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "match", golden.StatusMatch.String())
	assert.Equal(t, "mismatch", golden.StatusMismatch.String())
	assert.Equal(t, "missing", golden.StatusMissing.String())
	assert.Equal(t, "updated", golden.StatusUpdated.String())
	assert.Equal(t, "status(9)", golden.Status(9).String())
}

func TestResultFailed_Nil(t *testing.T) {
	t.Parallel()

	var res *golden.Result
	assert.False(t, res.Failed())
}
