package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/cmd/livingset/cmd/compare"
	"github.com/agentstation/livingset/cmd/livingset/cmd/diff"
	"github.com/agentstation/livingset/cmd/livingset/cmd/history"
	"github.com/agentstation/livingset/cmd/livingset/cmd/merge"
	"github.com/agentstation/livingset/cmd/livingset/cmd/restore"
	"github.com/agentstation/livingset/cmd/livingset/cmd/types"
	"github.com/agentstation/livingset/cmd/livingset/cmd/validate"
	"github.com/agentstation/livingset/cmd/livingset/cmd/version"
)

// registerCommands adds every subcommand to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(compare.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(restore.NewCommand(a))
	rootCmd.AddCommand(history.NewCommand(a))
	rootCmd.AddCommand(types.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}
