// Package cmdutil provides shared flags and exit handling for livingset commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/pkg/dataset"
)

// TypeFlags selects data types by positional arguments and --types.
type TypeFlags struct {
	Types []string
}

// AddTypeFlags adds the --types flag to a command.
func AddTypeFlags(cmd *cobra.Command) *TypeFlags {
	flags := &TypeFlags{}
	cmd.Flags().StringSliceVarP(&flags.Types, "types", "t", nil,
		"Data types to process, comma separated (default all): "+strings.Join(typeNames(), ", "))
	return flags
}

// Resolve combines positional args with --types. Nothing selected means all types.
func (f *TypeFlags) Resolve(args []string) ([]dataset.DataType, error) {
	values := append(append([]string(nil), args...), f.Types...)
	return dataset.ParseTypes(values)
}

// CompleteTypes offers data type names for shell completion.
func CompleteTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return typeNames(), cobra.ShellCompDirectiveNoFileComp
}

func typeNames() []string {
	names := make([]string, 0, len(dataset.All()))
	for _, dt := range dataset.All() {
		names = append(names, dt.String())
	}
	return names
}
