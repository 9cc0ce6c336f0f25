package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds the command tree over a memory filesystem and
// captures its output.
func newTestRoot(fsys afero.Fs) (*cobra.Command, *bytes.Buffer) {
	cmd := newRootCommand(&RootOptions{Fs: fsys})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd, out
}

func TestRoot_NoCommandPrintsHelpSuccessfully(t *testing.T) {
	root, out := newTestRoot(afero.NewMemMapFs())
	root.SetArgs([]string{})

	err := root.Execute()
	require.NoError(t, err, "bare invocation must exit successfully")
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "find-duplicates")
}

func TestRoot_InvalidFormatRejected(t *testing.T) {
	root, _ := newTestRoot(afero.NewMemMapFs())
	root.SetArgs([]string{"stats", "--format", "xml", "--db", filepath.Join(t.TempDir(), "x.db")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_UnknownCommand(t *testing.T) {
	root, _ := newTestRoot(afero.NewMemMapFs())
	root.SetArgs([]string{"no-such-command"})

	err := root.Execute()
	assert.Error(t, err)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
