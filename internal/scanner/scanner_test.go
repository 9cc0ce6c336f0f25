package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfox/dedup/internal/fingerprint"
	"github.com/myfox/dedup/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestFP(t *testing.T) fingerprint.Fingerprinter {
	t.Helper()
	fp, err := fingerprint.New("xxhash", 0)
	require.NoError(t, err)
	return fp
}

func seedTree(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestScan_FindsDuplicates(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/a.txt":     "X",
		"/tree/sub/b.txt": "X",
		"/tree/c.txt":     "Y",
	})

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t))

	dups, err := sc.Scan(context.Background(), "/tree", []string{".txt"})
	require.NoError(t, err)

	require.Len(t, dups, 1, "one duplicate group")
	for _, paths := range dups {
		assert.ElementsMatch(t, []string{"/tree/a.txt", "/tree/sub/b.txt"}, paths)
	}

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "all matched files are indexed, not only duplicates")
}

func TestScan_Idempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/a.txt": "X",
		"/tree/b.txt": "X",
	})

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t))
	ctx := context.Background()

	_, err := sc.Scan(ctx, "/tree", []string{".txt"})
	require.NoError(t, err)
	first, err := st.Count(ctx)
	require.NoError(t, err)

	_, err = sc.Scan(ctx, "/tree", []string{".txt"})
	require.NoError(t, err)
	second, err := st.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-scanning an unchanged tree adds no rows")
}

func TestScan_ExtensionFilterCaseInsensitive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/photo.JPG":  "img",
		"/tree/other.jpeg": "img",
		"/tree/skip.txt":   "text",
	})

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t))

	_, err := sc.Scan(context.Background(), "/tree", []string{".jpg", ".jpeg"})
	require.NoError(t, err)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err := st.GetByPath(context.Background(), "/tree/skip.txt")
	require.NoError(t, err)
	assert.False(t, ok, "non-matching file must not be indexed")
}

func TestScan_ExcludedDirsSkipped(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/keep.txt":         "X",
		"/tree/.git/objects.txt": "X",
	})

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t), WithExcludedDirs([]string{".git"}))

	_, err := sc.Scan(context.Background(), "/tree", []string{".txt"})
	require.NoError(t, err)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestScan_RecordsMetadata(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{"/tree/a.txt": "hello"})

	mtime := time.Unix(1_700_000_000, 0)
	require.NoError(t, fsys.Chtimes("/tree/a.txt", mtime, mtime))

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t))

	_, err := sc.Scan(context.Background(), "/tree", []string{".txt"})
	require.NoError(t, err)

	rec, ok, err := st.GetByPath(context.Background(), "/tree/a.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "txt", rec.Kind)
	assert.Equal(t, int64(5), rec.Size)
	assert.Equal(t, mtime.Unix(), rec.ModifiedAt)
	assert.NotEmpty(t, rec.Digest)
}

func TestScan_RecordsScanRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/a.txt": "X",
		"/tree/b.txt": "X",
	})

	st := newTestStore(t)
	sc := New(fsys, st, newTestFP(t))

	_, err := sc.Scan(context.Background(), "/tree", []string{".txt"})
	require.NoError(t, err)

	run, err := st.LastScanRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "/tree", run.Root)
	assert.Equal(t, int64(2), run.FilesIndexed)
	assert.Equal(t, int64(1), run.DuplicateGroups)
}

// failOnFingerprinter fails for one specific path, passing everything
// else through.
type failOnFingerprinter struct {
	inner  fingerprint.Fingerprinter
	failOn string
	err    error
}

func (f *failOnFingerprinter) Sum(fsys afero.Fs, path string) (string, error) {
	if path == f.failOn {
		return "", f.err
	}
	return f.inner.Sum(fsys, path)
}

func (f *failOnFingerprinter) Algorithm() string { return f.inner.Algorithm() }

func TestScan_FingerprintFailureAbortsWalk(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedTree(t, fsys, map[string]string{
		"/tree/a.txt": "X",
		"/tree/b.txt": "Y",
		"/tree/c.txt": "Z",
	})

	wantErr := errors.New("read failed")
	fp := &failOnFingerprinter{inner: newTestFP(t), failOn: "/tree/b.txt", err: wantErr}

	st := newTestStore(t)
	sc := New(fsys, st, fp)

	_, err := sc.Scan(context.Background(), "/tree", []string{".txt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)

	// Files indexed before the failure stay indexed (at-least-once, no
	// rollback across the tree), and no scan run is recorded.
	_, ok, err := st.GetByPath(context.Background(), "/tree/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	run, err := st.LastScanRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)
}
