// Package types implements the types command.
package types

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/dataset"
)

// Info describes one configured data type.
type Info struct {
	DataType dataset.DataType `json:"data_type" yaml:"data_type"`
	Stem     string           `json:"stem" yaml:"stem"`
	Key      []string         `json:"key" yaml:"key"`
	Required []string         `json:"required" yaml:"required"`
	Living   string           `json:"living" yaml:"living"`
	Latest   string           `json:"latest" yaml:"latest"`
	Raw      string           `json:"raw,omitempty" yaml:"raw,omitempty"`
	Backups  string           `json:"backups" yaml:"backups"`
}

// NewCommand creates the types command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "types",
		GroupID: "management",
		Short:   "List data types, their keys and file locations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := List(app)
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), infos,
				func() output.Data { return table(infos) })
		},
	}
}

// List describes every configured data type in processing order.
func List(app application.Application) ([]Info, error) {
	m, err := app.Merger()
	if err != nil {
		return nil, err
	}
	layout := m.Layout()

	infos := make([]Info, 0, len(layout))
	for _, dt := range layout.Types() {
		paths, err := layout.Paths(dt)
		if err != nil {
			return nil, err
		}
		schema := dt.Schema()
		infos = append(infos, Info{
			DataType: dt,
			Stem:     paths.Stem,
			Key:      schema.KeyNames(),
			Required: schema.RequiredColumns,
			Living:   paths.Living,
			Latest:   paths.Latest,
			Raw:      paths.Raw,
			Backups:  paths.BackupDir,
		})
	}
	return infos, nil
}

func table(infos []Info) output.Data {
	data := output.Data{Headers: output.Headers("type", "key", "living", "latest")}
	for _, i := range infos {
		data.Rows = append(data.Rows, []string{
			i.DataType.String(),
			strings.Join(i.Key, " + "),
			i.Living,
			i.Latest,
		})
	}
	return data
}
