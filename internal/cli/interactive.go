package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myfox/dedup/internal/resolver"
)

// NewDeleteDuplicatesCommand creates the delete-duplicates-interactive
// command.
func NewDeleteDuplicatesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-duplicates-interactive",
		Short: "Interactively delete duplicate files, keeping one per group",
		Long: `Walk every duplicate group in the index and prompt for the file to
KEEP; all others in the group are deleted from disk and index. Pressing
ENTER, or entering anything that is not a valid position, skips the
group without deleting anything.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteDuplicates(opts, cmd)
		},
	}
	return cmd
}

func runDeleteDuplicates(opts *RootOptions, cmd *cobra.Command) error {
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

	w := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return nil
	}

	picker := &consolePicker{in: bufio.NewScanner(cmd.InOrStdin()), out: w}
	r := resolver.New(opts.Fs, st, nil)
	report := r.ResolveAll(cmd.Context(), groups, picker)

	for _, p := range report.Deleted {
		fmt.Fprintf(w, "Deleted file: %s\n", p)
	}
	fmt.Fprintf(w, "Resolved %d group(s): %d file(s) deleted, %d skipped, %d failed.\n",
		len(groups), len(report.Deleted), len(report.Skipped), len(report.Failed))

	if len(report.Failed) > 0 {
		for _, f := range report.Failed {
			fmt.Fprintf(w, "Group %s failed: %v\n", f.Digest, f.Err)
		}
		return WrapExitError(ExitFailure, "some groups could not be resolved", nil)
	}
	return nil
}

// consolePicker prompts on the command's streams for the survivor of
// each group. Blank or non-numeric input skips the group; out-of-range
// numbers are passed on and rejected by the resolver.
type consolePicker struct {
	in  *bufio.Scanner
	out io.Writer
}

// Pick implements resolver.SurvivorPicker.
func (c *consolePicker) Pick(digest string, paths []string) (int, bool) {
	fmt.Fprintf(c.out, "\nDuplicate files for hash %s:\n", digest)
	for i, p := range paths {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, p)
	}
	fmt.Fprint(c.out, "Enter the number of the file you want to KEEP (others will be deleted), press [ENTER] to skip: ")

	if !c.in.Scan() {
		return 0, false
	}
	choice, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
	if err != nil {
		fmt.Fprintln(c.out, "Invalid input. Skipping these files.")
		return 0, false
	}
	return choice, true
}
