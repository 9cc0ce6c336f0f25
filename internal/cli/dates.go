package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewFindByDateCommand creates the find-by-date command.
func NewFindByDateCommand(opts *RootOptions) *cobra.Command {
	var endDate int64
	cmd := &cobra.Command{
		Use:   "find-by-date <start>",
		Short: "Find indexed files by modification date range",
		Long: `List indexed paths whose modification time is at or after <start>
(epoch seconds), and at or before --end-date when given. Pure index
read: returned paths may no longer exist on disk.

Example:
  dedup --db photos.db find-by-date 1700000000 --end-date 1710000000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid start timestamp %q", args[0]), err)
			}
			var end *int64
			if cmd.Flags().Changed("end-date") {
				end = &endDate
			}
			return runFindByDate(opts, cmd, start, end)
		},
	}
	cmd.Flags().Int64Var(&endDate, "end-date", 0, "inclusive end timestamp (epoch seconds)")
	return cmd
}

func runFindByDate(opts *RootOptions, cmd *cobra.Command, start int64, end *int64) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := newMaintainer(opts, st)
	paths, err := m.FindByDateRange(cmd.Context(), start, end)
	if err != nil {
		return WrapExitError(ExitFailure, "date query failed", err)
	}

	out := formatter(opts, cmd)
	if handled, err := out.JSON(paths); handled {
		return err
	}
	for _, p := range paths {
		out.Textf("%s\n", p)
	}
	return nil
}
