package merge

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/internal/cmd/alerts"
	"github.com/agentstation/livingset/internal/cmd/output"
	livemerge "github.com/agentstation/livingset/pkg/merge"
)

func printSummary(cmd *cobra.Command, format output.Format, summary *livemerge.Summary) error {
	w := cmd.OutOrStdout()
	if err := output.Render(w, format, summary, func() output.Data { return summaryTable(summary) }); err != nil {
		return err
	}
	if format != output.FormatTable {
		return nil
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	aw := alerts.NewWriter(w, noColor)
	for _, o := range summary.Outcomes {
		if err := aw.Write(alerts.FromOutcome(o)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summaryLine(summary))
	return err
}

func summaryTable(summary *livemerge.Summary) output.Data {
	data := output.Data{
		Headers: output.Headers("type", "status", "prior", "latest", "purged_retained", "new", "updated", "total", "backup"),
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight,
			output.AlignLeft,
		},
	}
	for _, o := range summary.Outcomes {
		row := []string{o.DataType.String(), string(o.Status), "", "", "", "", "", "", ""}
		if r := o.Report; r != nil {
			row[2] = strconv.Itoa(r.Prior)
			row[3] = strconv.Itoa(r.Latest)
			row[4] = strconv.Itoa(r.PurgedRetained)
			row[5] = strconv.Itoa(r.NewlyAdded)
			row[6] = strconv.Itoa(r.Updated)
			row[7] = strconv.Itoa(r.Total)
		}
		if o.Backup.Exists() {
			row[8] = filepath.Base(o.Backup.Path)
		}
		if o.DryRun && o.Status == livemerge.StatusSuccess {
			row[1] += " (dry run)"
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
