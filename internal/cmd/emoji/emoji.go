// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants give every command the same status markers.
const (
	// Success marks a merged data type or a passing validation.
	Success = "✓"

	// Error marks a failed data type or a failing validation.
	Error = "✗"

	// Warning marks a forced merge or a validation warning.
	Warning = "!"

	// Skipped marks a data type with no latest snapshot.
	Skipped = "-"

	// Info marks informational messages such as dry runs.
	Info = "i"
)
