// Package validate implements the validate command.
package validate

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/emoji"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/validation"
)

// Report is the validation outcome of one file.
type Report struct {
	DataType dataset.DataType   `json:"data_type" yaml:"data_type"`
	Role     string             `json:"role" yaml:"role"`
	Path     string             `json:"path" yaml:"path"`
	Present  bool               `json:"present" yaml:"present"`
	Result   *validation.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be loaded or failed its checks.
func (r Report) Failed() bool {
	return r.Error != "" || (r.Present && !r.Result.IsValid())
}

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var types *cmdutil.TypeFlags

	cmd := &cobra.Command{
		Use:     "validate [types...]",
		GroupID: "management",
		Short:   "Validate living and latest files without merging",
		Long: `Validate loads the living and latest files of each data type and runs the
checks a merge would run: required columns, unparseable rows, duplicate keys
and near-duplicate identities. Nothing is written.

The exit status is 1 when any present file fails validation.`,
		Example: `  livingset validate                  # Validate every data type
  livingset validate ground -o json   # One type, JSON output`,
		ValidArgsFunction: cmdutil.CompleteTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := types.Resolve(args)
			if err != nil {
				return err
			}
			reports, err := Run(cmd, app, selected)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if err := output.Render(cmd.OutOrStdout(), format, reports, func() output.Data { return table(reports) }); err != nil {
				return err
			}

			failed := 0
			for _, r := range reports {
				if r.Failed() {
					failed++
				}
			}
			if failed > 0 {
				return cmdutil.PartialFailure(failed)
			}
			return nil
		},
	}
	types = cmdutil.AddTypeFlags(cmd)

	return cmd
}

// Run validates the living and latest files of each type.
func Run(cmd *cobra.Command, app application.Application, types []dataset.DataType) ([]Report, error) {
	m, err := app.Merger()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	layout := m.Layout()

	var reports []Report
	for _, dt := range types {
		paths, err := layout.Paths(dt)
		if err != nil {
			return nil, err
		}

		living := Report{DataType: dt, Role: validation.RoleLiving, Path: paths.Living}
		switch ds, err := m.LoadLiving(ctx, dt); {
		case err != nil:
			living.Present, living.Error = true, err.Error()
		case ds != nil:
			living.Present = true
			living.Result = m.Validate(ds, dt)
			living.Result.Role = validation.RoleLiving
		}

		latest := Report{DataType: dt, Role: validation.RoleLatest, Path: paths.Latest}
		switch ds, err := m.LoadLatest(ctx, dt); {
		case errors.IsMissingInput(err):
		case err != nil:
			latest.Present, latest.Error = true, err.Error()
		default:
			latest.Present = true
			latest.Result = m.Validate(ds, dt)
			latest.Result.Role = validation.RoleLatest
		}

		reports = append(reports, living, latest)
	}
	return reports, nil
}

func table(reports []Report) output.Data {
	data := output.Data{
		Headers: output.Headers("type", "role", "records", "status", "issues"),
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignLeft,
		},
	}
	for _, r := range reports {
		row := []string{r.DataType.String(), r.Role, "", "", ""}
		switch {
		case r.Error != "":
			row[3] = emoji.Error + " unreadable"
			row[4] = r.Error
		case !r.Present:
			row[3] = emoji.Skipped + " absent"
		default:
			row[2] = strconv.Itoa(r.Result.Records)
			row[3] = emoji.Success + " valid"
			if !r.Result.IsValid() {
				row[3] = emoji.Error + " invalid"
			} else if r.Result.HasWarnings() {
				row[3] = emoji.Warning + " warnings"
			}
			var issues []string
			for _, i := range append(append([]validation.Issue(nil), r.Result.Errors...), r.Result.Warnings...) {
				issues = append(issues, i.String())
			}
			row[4] = strings.Join(issues, "; ")
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
