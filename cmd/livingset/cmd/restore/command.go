// Package restore implements the restore command.
package restore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/emoji"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
)

// Flags holds the restore command flags.
type Flags struct {
	Date   string
	DryRun bool
}

// NewCommand creates the restore command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "restore TYPE [--date YYYYMMDD]",
		GroupID: "management",
		Short:   "List backups or restore a living dataset from one",
		Long: `Without --date, restore lists the dated backups of a data type.

With --date, the backup taken that day is copied over the living file. The
current living file is backed up for today first.`,
		Example: `  livingset restore striking                  # List backups
  livingset restore striking --date 20240309  # Restore the 9 March backup
  livingset restore striking --date 20240309 --dry-run`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmdutil.CompleteTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.Date, "date", "", "Backup date to restore (YYYYMMDD)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show which backup would be restored")

	return cmd
}

// Execute lists backups of a type or restores one.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, arg string) error {
	dt, err := dataset.ParseType(arg)
	if err != nil {
		return err
	}
	m, err := app.Merger()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if flags.Date == "" {
		handles, err := m.Backups(ctx, dt)
		if err != nil {
			return err
		}
		return output.Render(w, output.DetectFormat(app.OutputFormat()), handles, func() output.Data { return table(handles) })
	}

	if err := validateDate(flags.Date); err != nil {
		return err
	}

	if flags.DryRun {
		handles, err := m.Backups(ctx, dt)
		if err != nil {
			return err
		}
		for _, h := range handles {
			if h.Date == flags.Date {
				fmt.Fprintf(w, "%s Would restore %s from %s (Dry run)\n", emoji.Info, dt, h.Path)
				return nil
			}
		}
		return errors.NewNotFoundError(dt.String()+" backup", flags.Date)
	}

	source, err := m.Restore(ctx, dt, flags.Date)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Restored %s from %s\n", emoji.Success, dt, source)
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(constants.BackupDateLayout, date); err != nil {
		return errors.NewConfigError("restore", fmt.Sprintf("invalid date %q, want YYYYMMDD", date), err)
	}
	return nil
}

func table(handles []backup.Handle) output.Data {
	data := output.Data{
		Headers:         output.Headers("date", "path", "size"),
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignRight},
	}
	for _, h := range handles {
		data.Rows = append(data.Rows, []string{h.Date, h.Path, strconv.FormatInt(h.Size, 10)})
	}
	return data
}
