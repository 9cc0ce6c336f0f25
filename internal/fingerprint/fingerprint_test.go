package fingerprint

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys afero.Fs, path string, content []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, content, 0o644))
}

func TestXXHash_DeterministicForIdenticalContent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a.txt", []byte("same content"))
	writeFile(t, fsys, "/b.txt", []byte("same content"))

	fp := &XXHash{ChunkSize: DefaultChunkSize}

	da, err := fp.Sum(fsys, "/a.txt")
	require.NoError(t, err)
	db, err := fp.Sum(fsys, "/b.txt")
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.Len(t, da, 16, "xxhash digest is 16 hex chars")
	assert.Equal(t, da, string(bytes.ToLower([]byte(da))))
}

func TestXXHash_DistinctContentDistinctDigest(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a.txt", []byte("content X"))
	writeFile(t, fsys, "/b.txt", []byte("content Y"))

	fp := &XXHash{ChunkSize: DefaultChunkSize}

	da, err := fp.Sum(fsys, "/a.txt")
	require.NoError(t, err)
	db, err := fp.Sum(fsys, "/b.txt")
	require.NoError(t, err)

	assert.NotEqual(t, da, db)
}

func TestXXHash_ChunkBoundaries(t *testing.T) {
	// Content larger than the chunk size must hash identically to a
	// single-chunk read of the same bytes.
	content := bytes.Repeat([]byte("0123456789abcdef"), 1024) // 16 KiB

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/big.bin", content)

	small := &XXHash{ChunkSize: 64}
	large := &XXHash{ChunkSize: len(content) * 2}

	ds, err := small.Sum(fsys, "/big.bin")
	require.NoError(t, err)
	dl, err := large.Sum(fsys, "/big.bin")
	require.NoError(t, err)

	assert.Equal(t, ds, dl)
}

func TestSHA256_DigestShape(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a.txt", []byte("content"))

	fp := &SHA256{ChunkSize: DefaultChunkSize}

	d, err := fp.Sum(fsys, "/a.txt")
	require.NoError(t, err)
	assert.Len(t, d, 64, "sha256 digest is 64 hex chars")
}

func TestSum_MissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	fp := &XXHash{ChunkSize: DefaultChunkSize}

	_, err := fp.Sum(fsys, "/does-not-exist")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	fp, err := New("xxhash", 0)
	require.NoError(t, err)
	assert.Equal(t, "xxhash", fp.Algorithm())

	fp, err = New("sha256", 1024)
	require.NoError(t, err)
	assert.Equal(t, "sha256", fp.Algorithm())

	fp, err = New("", 0)
	require.NoError(t, err)
	assert.Equal(t, "xxhash", fp.Algorithm(), "empty algorithm defaults to xxhash")

	_, err = New("md5", 0)
	assert.Error(t, err)
}
