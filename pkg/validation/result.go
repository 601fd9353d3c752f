package validation

import (
	"fmt"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
)

// Check names.
const (
	CheckNonEmpty        = "non_empty"
	CheckTypeMatch       = "type_match"
	CheckRequiredColumns = "required_columns"
	CheckRejectedRows    = "rejected_rows"
	CheckDuplicateKeys   = "duplicate_keys"
	CheckNearDuplicates  = "near_duplicates"
)

// Dataset roles in a merge.
const (
	RoleLiving = "living"
	RoleLatest = "latest"
)

// Issue is one finding of a check.
type Issue struct {
	Check   string `json:"check" yaml:"check"`
	Message string `json:"message" yaml:"message"`
}

// String returns "check: message".
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Check, i.Message)
}

// Result represents the result of validating one dataset.
type Result struct {
	DataType dataset.DataType `json:"data_type" yaml:"data_type"`
	Role     string           `json:"role,omitempty" yaml:"role,omitempty"`
	Source   string           `json:"source,omitempty" yaml:"source,omitempty"`
	Records  int              `json:"records" yaml:"records"`
	Valid    bool             `json:"valid" yaml:"valid"`
	Errors   []Issue          `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []Issue          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsValid returns true if validation passed.
func (v *Result) IsValid() bool {
	return v != nil && v.Valid && len(v.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (v *Result) HasWarnings() bool {
	return v != nil && len(v.Warnings) > 0
}

// String returns a string representation of the validation result.
func (v *Result) String() string {
	if v.IsValid() {
		if v.HasWarnings() {
			return fmt.Sprintf("Validation passed with %d warnings", len(v.Warnings))
		}
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors", len(v.Errors))
}

// Err returns nil for a passing result, otherwise a *errors.DatasetValidationError
// naming the data type, the role and every failed check.
func (v *Result) Err() error {
	if v.IsValid() {
		return nil
	}
	issues := make([]string, len(v.Errors))
	for i, issue := range v.Errors {
		issues[i] = issue.String()
	}
	return &errors.DatasetValidationError{DataType: v.DataType.String(), Role: v.Role, Issues: issues}
}

func (v *Result) addError(check, format string, args ...any) {
	v.Valid = false
	v.Errors = append(v.Errors, Issue{Check: check, Message: fmt.Sprintf(format, args...)})
}

func (v *Result) addWarning(check, format string, args ...any) {
	v.Warnings = append(v.Warnings, Issue{Check: check, Message: fmt.Sprintf(format, args...)})
}
