package cli

import (
	"github.com/spf13/cobra"
)

// NewShowDuplicatesCommand creates the show-duplicates command.
func NewShowDuplicatesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-duplicates",
		Short: "Show duplicate groups stored in the index",
		Long: `List every duplicate group currently persisted in the index, without
touching the filesystem. Run find-duplicates first to populate the
index.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowDuplicates(opts, cmd)
		},
	}
	return cmd
}

func runShowDuplicates(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := newMaintainer(opts, st)
	groups, err := m.ListDuplicates(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "duplicate query failed", err)
	}

	out := formatter(opts, cmd)
	if handled, err := out.JSON(groups); handled {
		return err
	}
	renderGroups(cmd.OutOrStdout(), groups)
	return nil
}
