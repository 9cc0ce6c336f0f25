package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/myfox/dedup/internal/fingerprint"
	"github.com/myfox/dedup/internal/maintain"
	"github.com/myfox/dedup/internal/store"
)

// openStore opens the configured index database, wrapping failures with
// a command-error exit code.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open index database", err)
	}
	return st, nil
}

// closeStore closes st, logging rather than masking a command result.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing index database", "error", err)
	}
}

// newFingerprinter builds the configured Fingerprinter. The algorithm
// was already validated at config load.
func newFingerprinter(opts *RootOptions) (fingerprint.Fingerprinter, error) {
	fp, err := fingerprint.New(opts.Config.Hash, opts.Config.ChunkSize)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid digest configuration", err)
	}
	return fp, nil
}

// newMaintainer builds the maintenance layer over the configured
// filesystem and store.
func newMaintainer(opts *RootOptions, st *store.Store) *maintain.Maintainer {
	return maintain.New(opts.Fs, st, slog.Default())
}

// formatter builds the output formatter for a command.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
