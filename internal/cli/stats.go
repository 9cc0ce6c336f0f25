package cli

import (
	"github.com/spf13/cobra"

	"github.com/myfox/dedup/internal/index"
)

// statsPayload is the JSON shape of the stats command.
type statsPayload struct {
	index.Stats
	LastScan *index.ScanRun `json:"last_scan,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Summarize the index: record count, distinct file types, per-type
distribution, total size, and the most recent scan.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	stats, err := st.AggregateStats(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "stats query failed", err)
	}
	lastRun, err := st.LastScanRun(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "stats query failed", err)
	}

	out := formatter(opts, cmd)
	if handled, err := out.JSON(statsPayload{Stats: stats, LastScan: lastRun}); handled {
		return err
	}
	renderStats(cmd.OutOrStdout(), stats, lastRun)
	return nil
}
