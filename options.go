package livingset

import (
	"time"

	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/persist"
	"github.com/agentstation/livingset/pkg/reconciler"
	"github.com/agentstation/livingset/pkg/validation"
)

// Option is a function that configures a Merger instance
type Option func(*config) error

// config holds the configuration for a Merger instance
type config struct {
	dataDir        string
	layout         Layout
	now            func() time.Time
	persister      persist.Persister
	history        history.Recorder
	reconciler     reconciler.Reconciler
	reconcileOpts  []reconciler.Option
	validationOpts []validation.Option
}

func defaultConfig() *config {
	return &config{
		dataDir:   ".",
		now:       time.Now,
		persister: persist.CSV(),
	}
}

// WithDataDir sets the directory the default layout is derived from.
func WithDataDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewConfigError("data_dir", "must not be empty", nil)
		}
		c.dataDir = dir
		return nil
	}
}

// WithLayout configures explicit file locations, replacing the default layout.
func WithLayout(layout Layout) Option {
	return func(c *config) error {
		if len(layout) == 0 {
			return errors.NewConfigError("layout", "must configure at least one data type", nil)
		}
		c.layout = layout
		return nil
	}
}

// WithClock sets the clock used for backup dates, quarantine names and timings.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.NewConfigError("clock", "must not be nil", nil)
		}
		c.now = now
		return nil
	}
}

// WithPersister replaces the atomic CSV writer.
func WithPersister(p persist.Persister) Option {
	return func(c *config) error {
		if p == nil {
			return errors.NewConfigError("persister", "must not be nil", nil)
		}
		c.persister = p
		return nil
	}
}

// WithHistory records every merge outcome with r. Nil disables the ledger.
func WithHistory(r history.Recorder) Option {
	return func(c *config) error {
		c.history = r
		return nil
	}
}

// WithReconciler replaces the default latest-wins reconciler.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(c *config) error {
		if r == nil {
			return errors.NewConfigError("reconciler", "must not be nil", nil)
		}
		c.reconciler = r
		return nil
	}
}

// WithReconcilerOptions configures the default reconciler. It has no effect
// when WithReconciler supplies one.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconcileOpts = append(c.reconcileOpts, opts...)
		return nil
	}
}

// WithValidationOptions configures the dataset validator.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(c *config) error {
		c.validationOpts = append(c.validationOpts, opts...)
		return nil
	}
}
