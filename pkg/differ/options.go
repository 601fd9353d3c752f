package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIgnoredFields sets columns to ignore during comparison
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithBlankAsEqual treats a blank cell on either side as no change
func WithBlankAsEqual(enabled bool) Option {
	return func(d *differ) {
		d.blankIsEqual = enabled
	}
}

// WithMaxValueLength truncates reported values; 0 disables truncation
func WithMaxValueLength(n int) Option {
	return func(d *differ) {
		d.maxValueLen = n
	}
}
