// Package cli wires the dedup commands: scanning, duplicate queries,
// resolution, and index maintenance.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/myfox/dedup/internal/config"
)

// RootOptions holds global flags and the resolved runtime shared by all
// commands.
type RootOptions struct {
	Database   string
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"

	// Fs is the filesystem all commands operate on. Defaults to the OS
	// filesystem; tests swap in a memory one.
	Fs afero.Fs

	// Config is resolved in PersistentPreRunE from defaults, the config
	// file, and flags.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dedup CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Fs: afero.NewOsFs()})
}

// newRootCommand builds the command tree over the given options; tests
// inject a memory filesystem here.
func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Index files by content hash and manage duplicates",
		Long: `dedup indexes files under a directory tree by content hash and answers
queries against the persisted index: duplicate sets, date ranges, size
thresholds, and staleness cleanup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load(opts.Fs, opts.ConfigFile)
			if err != nil {
				return err
			}
			if opts.Database != "" {
				cfg.Database = opts.Database
			}
			opts.Config = cfg

			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the index database (default from config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to config file (default "+config.DefaultFile+" if present)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewCreateDBCommand(opts))
	cmd.AddCommand(NewFindDuplicatesCommand(opts))
	cmd.AddCommand(NewFindByDateCommand(opts))
	cmd.AddCommand(NewFindLargeFilesCommand(opts))
	cmd.AddCommand(NewCleanOldFilesCommand(opts))
	cmd.AddCommand(NewShowDuplicatesCommand(opts))
	cmd.AddCommand(NewDeleteDuplicatesCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
