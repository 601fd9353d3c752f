// Package merge implements the merge command.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
)

// Flags holds the merge command flags.
type Flags struct {
	Types      *cmdutil.TypeFlags
	SkipBackup bool
	Force      bool
	DryRun     bool
	Prepare    bool
	Parallel   int
	Strategy   string
}

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge [types...]",
		GroupID: "core",
		Short:   "Merge latest snapshots into living datasets",
		Long: `Merge folds each data type's latest snapshot (<stem>_latest.csv) into its
living dataset (<stem>_living.csv).

For every requested data type, independently:
• Load the latest snapshot; a missing snapshot skips the type
• Load the living dataset; a missing one is seeded from the snapshot
• Validate both (required columns, unparseable rows, duplicate keys)
• Back up the living file to <stem>_living_YYYYMMDD.csv, once per day
• Reconcile: snapshot values win, records the snapshot dropped are retained
• Write the merged living file atomically

A failing type does not stop the others. The exit status is 1 when any type
failed and 2 when the invocation itself is invalid.`,
		Example: `  livingset merge                      # Merge every data type
  livingset merge ground striking      # Merge two types
  livingset merge --types=profile      # Same, via flag
  livingset merge --dry-run            # Report without writing
  livingset merge --prepare            # Copy <stem>.csv to <stem>_latest.csv first
  livingset merge --parallel 4         # Merge types concurrently
  livingset merge --strategy fill-blanks  # Keep living values the snapshot left blank`,
		ValidArgsFunction: cmdutil.CompleteTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("parallel") {
				flags.Parallel = app.Parallel()
			}
			return Execute(cmd, app, flags, args)
		},
	}

	flags.Types = cmdutil.AddTypeFlags(cmd)
	cmd.Flags().BoolVar(&flags.SkipBackup, "skip-backup", false, "merge without taking a backup (no rollback point)")
	cmd.Flags().BoolVar(&flags.SkipBackup, "no-backup", false, "alias for --skip-backup")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "merge even when validation fails")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "compute and report without writing living or quarantine files")
	cmd.Flags().BoolVar(&flags.Prepare, "prepare", false, "copy raw scraper output (<stem>.csv) over the latest file first")
	cmd.Flags().IntVar(&flags.Parallel, "parallel", 0, "merge up to N data types concurrently")
	cmd.Flags().StringVar(&flags.Strategy, "strategy", "", "overlap strategy: latest-wins or fill-blanks (default from merge.strategy)")

	return cmd
}
