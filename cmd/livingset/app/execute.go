package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/pkg/errors"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configFile string
	dataDir    string
	logDir     string
	format     string
	logLevel   string
	verbose    bool
	quiet      bool
	noColor    bool
	noHistory  bool
}

// Execute runs the livingset CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "livingset",
		Short:   "Merge scraper snapshots into living datasets",
		Version: a.version,
		Long: `Livingset maintains cumulative "living" CSV datasets of fight statistics.

Each scraper run produces a latest snapshot per data type. Merging folds the
snapshot into the living file: keys the snapshot carries take its values, keys
only the living file has are retained, and new keys are appended. Nothing is
ever dropped because a snapshot stopped listing it.

Every merge validates its inputs, backs up the living file once per day,
writes atomically, appends to merge_log_YYYYMMDD.log and records the outcome
in a local history ledger.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configFile, "config", "", "config file (default is ./.livingset.yaml or $HOME/.livingset.yaml)")
	flags.StringVarP(&a.flags.dataDir, "data-dir", "d", "", "directory holding the CSV files (default \".\")")
	flags.StringVar(&a.flags.logDir, "log-dir", "", "directory for merge_log_YYYYMMDD.log (default data dir)")
	flags.StringVarP(&a.flags.format, "format", "o", "", "output format: table, json, yaml")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (debug logging, per-record changes)")
	flags.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&a.flags.noHistory, "no-history", false, "do not open the merge history ledger")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewConfigError("flags", err.Error(), err)
	})
	rootCmd.SetVersionTemplate("livingset {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand reloads configuration when --config is given, applies the
// flags that were set explicitly, validates the result and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.flags.configFile != "" {
		config, err := LoadConfig(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		a.config.DataDir = a.flags.dataDir
	}
	if changed("log-dir") {
		a.config.LogDir = a.flags.logDir
	}
	if changed("format") {
		a.config.Format = a.flags.format
	}
	if changed("log-level") {
		a.config.LogLevel = a.flags.logLevel
	}
	if changed("verbose") {
		a.config.Verbose = a.flags.verbose
	}
	if changed("quiet") {
		a.config.Quiet = a.flags.quiet
	}
	if changed("no-color") {
		a.config.NoColor = a.flags.noColor
	}
	if changed("no-history") && a.flags.noHistory {
		a.config.HistoryEnabled = false
	}

	if err := a.config.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	a.mu.Lock()
	if !a.mergerInjected {
		a.merger = nil
	}
	a.mu.Unlock()

	return nil
}

// ExitOnError prints err and exits with the status it maps to.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	var exitErr *cmdutil.ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cmdutil.ExitCode(err))
}
