package validation

import "github.com/agentstation/livingset/pkg/constants"

type options struct {
	role                    string
	similarityThreshold     float64
	maxSimilarityIdentities int
}

// Option configures a Validator.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		similarityThreshold:     constants.DefaultSimilarityThreshold,
		maxSimilarityIdentities: constants.MaxSimilarityIdentities,
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRole labels results with the dataset's role ("living" or "latest").
func WithRole(role string) Option {
	return func(o *options) {
		o.role = role
	}
}

// WithSimilarityThreshold sets the Jaro-Winkler similarity at which distinct
// identities are reported as possible duplicates. Zero disables the check.
func WithSimilarityThreshold(threshold float64) Option {
	return func(o *options) {
		o.similarityThreshold = threshold
	}
}

// WithMaxSimilarityIdentities skips the near-duplicate check above n identities.
func WithMaxSimilarityIdentities(n int) Option {
	return func(o *options) {
		o.maxSimilarityIdentities = n
	}
}
