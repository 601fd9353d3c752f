// Package history implements the history command.
package history

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/history"
)

// Flags holds the history command flags.
type Flags struct {
	Type  string
	Run   string
	Limit int
}

// NewCommand creates the history command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "management",
		Short:   "Show past merge outcomes",
		Long: `History lists merge outcomes recorded in the local ledger, newest first.
Each merge run records one entry per data type.`,
		Example: `  livingset history
  livingset history --type striking --limit 5
  livingset history --run 2b7d0c5e-... -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Type, "type", "", "Only show this data type")
	cmd.Flags().StringVar(&flags.Run, "run", "", "Only show this run ID")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "n", constants.DefaultHistoryLimit, "Maximum entries to show")
	_ = cmd.RegisterFlagCompletionFunc("type", cmdutil.CompleteTypes)

	return cmd
}

// Execute lists ledger entries.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	q := history.Query{RunID: flags.Run, Limit: flags.Limit}
	if flags.Type != "" {
		dt, err := dataset.ParseType(flags.Type)
		if err != nil {
			return err
		}
		q.DataType = dt.String()
	}
	if flags.Limit < 0 {
		return errors.NewConfigError("limit", "must not be negative", nil)
	}

	ledger, err := app.History(cmd.Context())
	if err != nil {
		return err
	}
	if ledger == nil {
		return errors.NewConfigError("history", "merge history is disabled", nil)
	}

	entries, err := ledger.List(cmd.Context(), q)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), entries,
		func() output.Data { return table(entries) })
}

func table(entries []history.Entry) output.Data {
	data := output.Data{
		Headers: output.Headers("started", "run", "type", "status", "prior", "latest", "purged_retained", "new", "updated", "total"),
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight,
		},
	}
	for _, e := range entries {
		status := e.Status
		if e.DryRun {
			status += " (dry run)"
		}
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		data.Rows = append(data.Rows, []string{
			e.StartedAt.Local().Format(time.DateTime),
			run,
			e.DataType,
			status,
			strconv.Itoa(e.Prior),
			strconv.Itoa(e.Latest),
			strconv.Itoa(e.PurgedRetained),
			strconv.Itoa(e.NewlyAdded),
			strconv.Itoa(e.Updated),
			strconv.Itoa(e.Total),
		})
	}
	return data
}
