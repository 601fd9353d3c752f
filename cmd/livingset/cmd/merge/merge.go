package merge

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/output"
	livemerge "github.com/agentstation/livingset/pkg/merge"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/reconciler"
)

// Execute runs a merge with the given flags and prints the summary.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	types, err := flags.Types.Resolve(args)
	if err != nil {
		return err
	}
	opts := livemerge.Defaults().Apply(mergeOptions(cmd, flags)...)
	if err := opts.Validate(); err != nil {
		return err
	}
	var mergerOpts []livingset.Option
	if flags.Strategy != "" {
		strategy, ok := reconciler.StrategyByType(reconciler.StrategyType(flags.Strategy))
		if !ok {
			return errors.NewConfigError("strategy", fmt.Sprintf("unknown strategy %q", flags.Strategy), nil)
		}
		mergerOpts = append(mergerOpts, livingset.WithReconcilerOptions(reconciler.WithStrategy(strategy)))
	}

	logger, closer, err := app.MergeLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	ctx := logging.WithLogger(cmd.Context(), logger)

	ledger, err := app.History(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("History ledger unavailable, outcomes will not be recorded")
	} else if ledger != nil {
		mergerOpts = append(mergerOpts, livingset.WithHistory(ledger))
	}

	m, err := app.Merger(mergerOpts...)
	if err != nil {
		return err
	}

	summary, err := m.MergeAll(ctx, types, mergeOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	if err := printSummary(cmd, output.DetectFormat(app.OutputFormat()), summary); err != nil {
		return err
	}

	if summary.ExitCode() != livemerge.ExitOK {
		return cmdutil.PartialFailure(summary.Failed())
	}
	return nil
}

func mergeOptions(cmd *cobra.Command, flags *Flags) []livemerge.Option {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return []livemerge.Option{
		livemerge.WithSkipBackup(flags.SkipBackup),
		livemerge.WithForce(flags.Force),
		livemerge.WithDryRun(flags.DryRun),
		livemerge.WithPrepare(flags.Prepare),
		livemerge.WithParallel(flags.Parallel),
		livemerge.WithVerbose(verbose),
	}
}

// summaryLine is printed after the table.
func summaryLine(s *livemerge.Summary) string {
	return fmt.Sprintf("Run %s: %s in %s", s.RunID, s.String(), s.Duration.Round(time.Millisecond))
}
