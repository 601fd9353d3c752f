// Package application provides the application interface for livingset commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            m, err := app.Merger()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use m
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{DataDirFunc: func() string { return t.TempDir() }}
//	cmd := merge.NewCommand(mock)
package application

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/validation"
)

// Application provides the application interface that commands need.
// The App struct from cmd/livingset/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Merger returns a merger for the configured layout. Options are appended
	// to those derived from configuration.
	Merger(opts ...livingset.Option) (livingset.Merger, error)

	// History opens the merge history ledger. It returns (nil, nil) when
	// history is disabled.
	History(ctx context.Context) (history.Ledger, error)

	// MergeLogger returns the logger for a merge run: console output teed to
	// today's merge log. Close the returned closer when the run ends.
	MergeLogger() (*zerolog.Logger, io.Closer, error)

	// ValidationOptions returns the configured validator options.
	ValidationOptions() []validation.Option

	// DataDir returns the resolved data directory.
	DataDir() string

	// Parallel returns the configured default parallelism for merges.
	Parallel() int

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
