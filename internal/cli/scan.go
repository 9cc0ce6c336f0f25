package cli

import (
	"github.com/spf13/cobra"

	"github.com/myfox/dedup/internal/scanner"
)

// NewFindDuplicatesCommand creates the find-duplicates command.
func NewFindDuplicatesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-duplicates <dir> <ext...>",
		Short: "Scan a directory tree and report duplicate files",
		Long: `Scan recursively under <dir>, index every file whose name ends with one
of the given extensions, and report the duplicate groups found by this
scan. Extension matching is a case-insensitive suffix test.

Example:
  dedup --db photos.db find-duplicates ~/Pictures .jpg .jpeg .png`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindDuplicates(opts, cmd, args[0], args[1:])
		},
	}
	return cmd
}

func runFindDuplicates(opts *RootOptions, cmd *cobra.Command, dir string, exts []string) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	fp, err := newFingerprinter(opts)
	if err != nil {
		return err
	}

	sc := scanner.New(opts.Fs, st, fp,
		scanner.WithExcludedDirs(opts.Config.ExcludeDirs))

	dups, err := sc.Scan(cmd.Context(), dir, exts)
	if err != nil {
		return WrapExitError(ExitFailure, "scan failed", err)
	}

	groups := groupsFromMap(dups)
	out := formatter(opts, cmd)
	if handled, err := out.JSON(groups); handled {
		return err
	}
	renderGroups(cmd.OutOrStdout(), groups)
	return nil
}
