package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/reconciler"
	"github.com/agentstation/livingset/pkg/validation"
)

// Status is the result of merging one data type.
type Status string

// Statuses.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Exit codes of a merge invocation.
const (
	ExitOK             = 0 // every requested type succeeded or was skipped
	ExitPartialFailure = 1 // at least one type failed
	ExitFatal          = 2 // the invocation could not start
)

// Outcome is what merging one data type produced.
type Outcome struct {
	DataType dataset.DataType   `json:"data_type" yaml:"data_type"`
	Status   Status             `json:"status" yaml:"status"`
	Report   *reconciler.Report `json:"report,omitempty" yaml:"report,omitempty"`

	LatestValidation *validation.Result `json:"latest_validation,omitempty" yaml:"latest_validation,omitempty"`
	LivingValidation *validation.Result `json:"living_validation,omitempty" yaml:"living_validation,omitempty"`

	Backup     backup.Handle `json:"backup" yaml:"backup"`
	Quarantine []string      `json:"quarantine,omitempty" yaml:"quarantine,omitempty"`
	Prepared   bool          `json:"prepared,omitempty" yaml:"prepared,omitempty"`
	Forced     bool          `json:"forced,omitempty" yaml:"forced,omitempty"`
	DryRun     bool          `json:"dry_run" yaml:"dry_run"`
	Seeded     bool          `json:"seeded" yaml:"seeded"`

	// Reason explains a skip or failure
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err    error  `json:"-" yaml:"-"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Skip marks the outcome skipped.
func (o *Outcome) Skip(reason string) *Outcome {
	o.Status = StatusSkipped
	o.Reason = reason
	return o
}

// Fail marks the outcome failed with err.
func (o *Outcome) Fail(err error) *Outcome {
	o.Status = StatusFailed
	o.Err = err
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// String returns a one-line summary of the outcome.
func (o *Outcome) String() string {
	switch o.Status {
	case StatusSuccess:
		if o.Report != nil {
			return o.Report.String()
		}
		return fmt.Sprintf("%s: success", o.DataType)
	default:
		return fmt.Sprintf("%s: %s (%s)", o.DataType, o.Status, o.Reason)
	}
}

// Entry converts the outcome into a history ledger entry.
func (o *Outcome) Entry() history.Entry {
	e := history.Entry{
		DataType:   o.DataType.String(),
		Status:     string(o.Status),
		DryRun:     o.DryRun,
		Seeded:     o.Seeded,
		BackupPath: o.Backup.Path,
		Error:      o.Reason,
		StartedAt:  o.StartedAt,
		Duration:   o.Duration,
	}
	if r := o.Report; r != nil {
		e.Prior = r.Prior
		e.Latest = r.Latest
		e.PurgedRetained = r.PurgedRetained
		e.PurgedEntities = r.PurgedEntities
		e.NewlyAdded = r.NewlyAdded
		e.Updated = r.Updated
		e.Unchanged = r.Unchanged
		e.DuplicatesDropped = r.DuplicatesDropped
		e.Total = r.Total
	}
	return e
}

// Summary represents the complete result of a merge run.
type Summary struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Outcomes  []*Outcome    `json:"outcomes" yaml:"outcomes"`
}

func (s *Summary) count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Succeeded returns the number of data types merged.
func (s *Summary) Succeeded() int { return s.count(StatusSuccess) }

// Skipped returns the number of data types skipped.
func (s *Summary) Skipped() int { return s.count(StatusSkipped) }

// Failed returns the number of data types that failed.
func (s *Summary) Failed() int { return s.count(StatusFailed) }

// Outcome returns the outcome for dt, or nil.
func (s *Summary) Outcome(dt dataset.DataType) *Outcome {
	for _, o := range s.Outcomes {
		if o.DataType == dt {
			return o
		}
	}
	return nil
}

// ExitCode maps the run to a process exit status.
func (s *Summary) ExitCode() int {
	if s.Failed() > 0 {
		return ExitPartialFailure
	}
	return ExitOK
}

// String returns a human-readable summary of the run.
func (s *Summary) String() string {
	var parts []string
	if s.DryRun {
		parts = append(parts, "(Dry run)")
	}
	summary := fmt.Sprintf("%d succeeded, %d skipped, %d failed", s.Succeeded(), s.Skipped(), s.Failed())
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}
