package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCreateDBCommand creates the create-db command.
func NewCreateDBCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-db [path]",
		Short: "Create or initialize the index database",
		Long: `Create the index database (and its schema) at the given path, or at the
configured database path when no argument is given. Safe to run against
an existing index.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Config.Database = args[0]
			}
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			out := formatter(opts, cmd)
			if handled, err := out.JSON(map[string]string{"database": opts.Config.Database}); handled {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index database ready: %s\n", opts.Config.Database)
			return nil
		},
	}
	return cmd
}
