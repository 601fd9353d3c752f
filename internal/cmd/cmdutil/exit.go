package cmdutil

import (
	"fmt"

	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/merge"
)

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap implements errors.Unwrap
func (e *ExitError) Unwrap() error {
	return e.Err
}

// PartialFailure reports that some data types failed.
func PartialFailure(failed int) error {
	return &ExitError{Code: merge.ExitPartialFailure, Err: fmt.Errorf("%d data type(s) failed", failed)}
}

// ExitCode maps a command error to the process exit status: 0 for nil, the
// carried code for an ExitError, 1 for a failed operation on data, and 2 for
// anything that stopped the invocation itself.
func ExitCode(err error) int {
	if err == nil {
		return merge.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.IsConfigError(err) {
		return merge.ExitFatal
	}
	if errors.IsPersistFailure(err) || errors.IsValidationError(err) || errors.IsNotFound(err) {
		return merge.ExitPartialFailure
	}
	return merge.ExitFatal
}
