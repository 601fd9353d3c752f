package reconciler

import (
	"time"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/differ"
	"github.com/agentstation/livingset/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	strategy   Strategy
	differ     differ.Differ
	sampleSize int
	now        func() time.Time
}

func defaultOptions() *options {
	return &options{
		strategy:   NewLatestWinsStrategy(),
		differ:     differ.New(),
		sampleSize: constants.PurgedSampleSize,
		now:        time.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy sets the strategy for keys present in both datasets.
func WithStrategy(strategy Strategy) Option {
	return func(r *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		r.strategy = strategy
		return nil
	}
}

// WithDiffer sets the differ used to classify overlapping keys as updated or unchanged.
func WithDiffer(d differ.Differ) Option {
	return func(r *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		r.differ = d
		return nil
	}
}

// WithPurgedSampleSize sets how many purged identities a report names.
func WithPurgedSampleSize(n int) Option {
	return func(r *options) error {
		if n < 0 {
			return &errors.ValidationError{
				Field:   "sample_size",
				Value:   n,
				Message: "must not be negative",
			}
		}
		r.sampleSize = n
		return nil
	}
}

// WithClock sets the time source for report timing.
func WithClock(now func() time.Time) Option {
	return func(r *options) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}
