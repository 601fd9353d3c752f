// Package app provides the application context and dependency management
// for the livingset CLI. It centralizes configuration, logging and the
// merger so commands depend only on the application.Application interface.
package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/validation"
)

// App represents the livingset application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Clock for merge log names; tests pin it
	now func() time.Time

	// Merger instance (lazy-initialized, singleton)
	mu             sync.RWMutex
	merger         livingset.Merger
	mergerInjected bool

	// Root command flags
	flags rootFlags

	// Open ledgers, closed on shutdown
	ledgers []history.Ledger
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		now:     time.Now,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// DataDir returns the configured data directory.
func (a *App) DataDir() string {
	return a.config.DataDir
}

// Parallel returns the configured merge parallelism.
func (a *App) Parallel() int {
	return a.config.Parallel
}

// ValidationOptions returns validator options from the configuration.
func (a *App) ValidationOptions() []validation.Option {
	return []validation.Option{validation.WithSimilarityThreshold(a.config.SimilarityThreshold)}
}

// Merger returns the merger for the configured layout. Without options the
// instance is created once and cached; with options a new one is built.
func (a *App) Merger(opts ...livingset.Option) (livingset.Merger, error) {
	if len(opts) == 0 {
		a.mu.RLock()
		if a.merger != nil {
			m := a.merger
			a.mu.RUnlock()
			return m, nil
		}
		a.mu.RUnlock()
	}

	all := append(a.mergerOptions(), opts...)
	m, err := livingset.New(all...)
	if err != nil {
		return nil, err
	}

	if len(opts) == 0 {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.merger == nil {
			a.merger = m
		}
		return a.merger, nil
	}
	return m, nil
}

// mergerOptions constructs merger options from the app configuration.
func (a *App) mergerOptions() []livingset.Option {
	return []livingset.Option{
		livingset.WithDataDir(a.config.DataDir),
		livingset.WithLayout(a.config.Layout()),
		livingset.WithValidationOptions(a.ValidationOptions()...),
		livingset.WithReconcilerOptions(a.config.ReconcilerOptions()...),
	}
}

// History opens the merge history ledger, or returns nil when disabled.
func (a *App) History(ctx context.Context) (history.Ledger, error) {
	if !a.config.HistoryEnabled {
		return nil, nil
	}
	store, err := history.Open(ctx, a.config.ResolvedHistoryPath())
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.ledgers = append(a.ledgers, store)
	a.mu.Unlock()
	return store, nil
}

// MergeLogger returns a logger that writes to the console and appends JSON
// lines to today's merge log.
func (a *App) MergeLogger() (*zerolog.Logger, io.Closer, error) {
	f, err := logging.OpenMergeLog(a.config.ResolvedLogDir(), a.now())
	if err != nil {
		return nil, nil, errors.NewConfigError("log_dir", err.Error(), err)
	}
	logger := NewMergeLogger(a.config, f)
	return &logger, f, nil
}

// Shutdown closes every ledger the app opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	ledgers := a.ledgers
	a.ledgers = nil
	a.mu.Unlock()

	var errs []error
	for _, l := range ledgers {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithMerger sets a custom merger instance (useful for testing).
func WithMerger(m livingset.Merger) Option {
	return func(a *App) error {
		a.merger = m
		a.mergerInjected = m != nil
		return nil
	}
}

// WithClock sets the clock used to name merge logs.
func WithClock(now func() time.Time) Option {
	return func(a *App) error {
		a.now = now
		return nil
	}
}
