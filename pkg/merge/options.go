// Package merge holds the options and results of merge runs: what a caller
// may ask of one run, and what each data type's merge produced.
package merge

import (
	"fmt"

	"github.com/agentstation/livingset/pkg/errors"
)

// Options controls one merge run.
type Options struct {
	SkipBackup bool // Proceed without a rollback point
	Force      bool // Merge even when validation fails
	DryRun     bool // Compute and report without writing living or quarantine files
	Verbose    bool // Log every changed record
	Prepare    bool // Copy the raw scraper output to the latest file first
	Parallel   int  // Data types merged concurrently; 0 or 1 is sequential
}

// Defaults returns the default merge options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options to the merge options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options for conflicts.
func (o *Options) Validate() error {
	if o.Parallel < 0 {
		return errors.NewConfigError("parallel", fmt.Sprintf("must not be negative, got %d", o.Parallel), nil)
	}
	return nil
}

// Workers returns the number of data types to merge at once.
func (o *Options) Workers() int {
	if o.Parallel < 1 {
		return 1
	}
	return o.Parallel
}

// Option is a function that configures merge Options.
type Option func(*Options)

// WithSkipBackup disables the pre-merge backup.
func WithSkipBackup(skip bool) Option {
	return func(o *Options) {
		o.SkipBackup = skip
	}
}

// WithForce merges even when validation fails.
func WithForce(force bool) Option {
	return func(o *Options) {
		o.Force = force
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithVerbose logs record-level changes.
func WithVerbose(verbose bool) Option {
	return func(o *Options) {
		o.Verbose = verbose
	}
}

// WithPrepare copies raw scraper output into place before merging.
func WithPrepare(prepare bool) Option {
	return func(o *Options) {
		o.Prepare = prepare
	}
}

// WithParallel merges up to n data types concurrently.
func WithParallel(n int) Option {
	return func(o *Options) {
		o.Parallel = n
	}
}
