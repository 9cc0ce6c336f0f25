package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()

	cfg, err := Load(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg.yaml", []byte(`
database: /data/index.db
hash: sha256
chunk_size: 8192
exclude_dirs:
  - .git
  - vendor
`), 0o644))

	cfg, err := Load(fsys, "/cfg.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/data/index.db", cfg.Database)
	assert.Equal(t, "sha256", cfg.Hash)
	assert.Equal(t, 8192, cfg.ChunkSize)
	assert.Equal(t, []string{".git", "vendor"}, cfg.ExcludeDirs)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg.yaml", []byte("database: custom.db\n"), 0o644))

	cfg, err := Load(fsys, "/cfg.yaml")
	require.NoError(t, err)

	want := Default()
	want.Database = "custom.db"
	assert.Equal(t, want, cfg)
}

func TestLoad_RejectsUnknownHash(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg.yaml", []byte("hash: md5\n"), 0o644))

	_, err := Load(fsys, "/cfg.yaml")
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg.yaml", []byte("database: [unclosed\n"), 0o644))

	_, err := Load(fsys, "/cfg.yaml")
	assert.Error(t, err)
}

func TestLoad_ProbesDefaultFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, DefaultFile, []byte("database: probed.db\n"), 0o644))

	cfg, err := Load(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, "probed.db", cfg.Database)
}
