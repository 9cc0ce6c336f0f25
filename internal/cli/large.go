package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewFindLargeFilesCommand creates the find-large-files command.
func NewFindLargeFilesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-large-files <size>",
		Short: "Find indexed files larger than a byte threshold",
		Long: `List indexed files whose size is strictly greater than <size> bytes,
with size and last-modified details.

Example:
  dedup --db photos.db find-large-files 10485760`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid size threshold %q", args[0]), err)
			}
			return runFindLargeFiles(opts, cmd, threshold)
		},
	}
	return cmd
}

func runFindLargeFiles(opts *RootOptions, cmd *cobra.Command, threshold int64) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := newMaintainer(opts, st)
	details, err := m.FindLargeFilesDetailed(cmd.Context(), threshold)
	if err != nil {
		return WrapExitError(ExitFailure, "size query failed", err)
	}

	out := formatter(opts, cmd)
	if handled, err := out.JSON(details); handled {
		return err
	}
	for _, d := range details {
		out.Textf("File: %s, Size: %s (%d bytes), Last Modified: %s\n",
			d.Path, humanize.Bytes(uint64(d.Size)), d.Size, d.LastModified)
	}
	return nil
}
