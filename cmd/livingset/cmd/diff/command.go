// Package diff implements the diff command.
package diff

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
	"github.com/agentstation/livingset/pkg/errors"
)

// Flags holds the diff command flags.
type Flags struct {
	Ignore         []string
	BlankAsEqual   bool
	MaxValueLength int
}

// NewCommand creates the diff command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "diff TYPE",
		GroupID: "core",
		Short:   "Show what the latest snapshot changes in a living dataset",
		Long: `Diff compares a data type's living dataset with its latest snapshot, keyed
the way a merge keys them, and writes nothing.

Added records are new in the snapshot, updated records differ cell by cell,
and removed records are the ones the snapshot dropped; a merge retains them.`,
		Example: `  livingset diff striking
  livingset diff profile --ignore Reach --blank-as-equal
  livingset diff ground -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmdutil.CompleteTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args[0])
		},
	}

	cmd.Flags().StringSliceVar(&flags.Ignore, "ignore", nil, "Columns to leave out of the comparison")
	cmd.Flags().BoolVar(&flags.BlankAsEqual, "blank-as-equal", false, "Do not report cells that are blank on either side")
	cmd.Flags().IntVar(&flags.MaxValueLength, "max-value-length", 50, "Truncate displayed values to N characters (0 for no limit)")

	return cmd
}

// Execute diffs one data type and prints the changeset.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, arg string) error {
	dt, err := dataset.ParseType(arg)
	if err != nil {
		return err
	}
	if flags.MaxValueLength < 0 {
		return errors.NewConfigError("diff", "--max-value-length must not be negative", nil)
	}
	m, err := app.Merger()
	if err != nil {
		return err
	}

	changes, err := m.Diff(cmd.Context(), dt,
		differ.WithIgnoredFields(flags.Ignore...),
		differ.WithBlankAsEqual(flags.BlankAsEqual),
		differ.WithMaxValueLength(flags.MaxValueLength),
	)
	var missing *errors.MissingInputError
	if errors.As(err, &missing) {
		return errors.NewNotFoundError("latest snapshot", missing.Path)
	}
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable || format == "" {
		changes.Print(cmd.OutOrStdout(), dt.Schema())
		return nil
	}
	return output.Render(cmd.OutOrStdout(), format, changes, nil)
}
