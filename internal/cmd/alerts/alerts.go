// Package alerts prints one-line status notifications for data types.
package alerts

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/livingset/pkg/merge"
)

// Alert represents a status notification.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// FromOutcome describes a data type's merge outcome.
func FromOutcome(o *merge.Outcome) *Alert {
	a := New(LevelFor(o.Status), o.String())
	if o.Status == merge.StatusSuccess {
		if o.Forced && (!o.LatestValidation.IsValid() || (o.LivingValidation != nil && !o.LivingValidation.IsValid())) {
			a.Level = LevelWarning
			a.Details = append(a.Details, "validation failed, merged with --force")
		}
		if o.Seeded {
			a.Details = append(a.Details, "seeded new living dataset")
		}
		if r := o.Report; r != nil && r.PurgedEntities > 0 {
			a.Details = append(a.Details, fmt.Sprintf("%d entities missing from snapshot, retained (e.g. %s)",
				r.PurgedEntities, strings.Join(r.PurgedSample, ", ")))
		}
		if o.Backup.Created {
			a.Details = append(a.Details, "backup "+o.Backup.Path)
		}
		for _, q := range o.Quarantine {
			a.Details = append(a.Details, "quarantined rows in "+q)
		}
	}
	return a
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer prints alerts to an io.Writer, colored on terminals.
type Writer struct {
	w        io.Writer
	useColor bool
}

// NewWriter creates a Writer. Color is used when w is a terminal and noColor is false.
func NewWriter(w io.Writer, noColor bool) *Writer {
	return &Writer{w: w, useColor: !noColor && isTerminal(w)}
}

// Write prints the alert and its details.
func (aw *Writer) Write(a *Alert) error {
	line := a.String()
	if aw.useColor {
		line = a.Level.Color() + line + ResetColor()
	}
	if _, err := fmt.Fprintln(aw.w, line); err != nil {
		return err
	}
	for _, d := range a.Details {
		if _, err := fmt.Fprintf(aw.w, "    %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
