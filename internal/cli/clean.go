package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCleanOldFilesCommand creates the clean-old-files command.
func NewCleanOldFilesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean-old-files <timestamp>",
		Short: "Delete indexed files older than a timestamp",
		Long: `Delete every indexed file whose modification time is strictly before
<timestamp> (epoch seconds): present files are removed from disk, and
all selected records are dropped from the index in one batch.

Example:
  dedup --db photos.db clean-old-files 1600000000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid age threshold %q", args[0]), err)
			}
			return runCleanOldFiles(opts, cmd, threshold)
		},
	}
	return cmd
}

func runCleanOldFiles(opts *RootOptions, cmd *cobra.Command, threshold int64) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := newMaintainer(opts, st)
	cleaned, err := m.CleanOldFiles(cmd.Context(), threshold)
	if err != nil {
		return WrapExitError(ExitFailure, "cleanup failed", err)
	}

	out := formatter(opts, cmd)
	if handled, err := out.JSON(cleaned); handled {
		return err
	}
	for _, p := range cleaned {
		out.Textf("Cleaned (deleted) file: %s\n", p)
	}
	return nil
}
