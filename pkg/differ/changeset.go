// Package differ provides record-level change detection between two versions
// of a dataset: which composite keys were added, updated or removed, and
// which cells changed.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/livingset/pkg/dataset"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific column.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`
	OldValue string     `json:"old_value" yaml:"old_value"`
	NewValue string     `json:"new_value" yaml:"new_value"`
	Type     ChangeType `json:"type" yaml:"type"`
}

// RecordUpdate represents an update to an existing record.
type RecordUpdate struct {
	Key      dataset.Key    `json:"key" yaml:"key"`
	Existing dataset.Record `json:"-" yaml:"-"`
	New      dataset.Record `json:"-" yaml:"-"`
	Changes  []FieldChange  `json:"changes" yaml:"changes"`
}

// Changeset represents all changes between two record sets.
type Changeset struct {
	Added     []dataset.Record `json:"added,omitempty" yaml:"added,omitempty"`
	Updated   []RecordUpdate   `json:"updated,omitempty" yaml:"updated,omitempty"`
	Removed   []dataset.Record `json:"removed,omitempty" yaml:"removed,omitempty"`
	Unchanged int              `json:"unchanged" yaml:"unchanged"`
	Summary   ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Added        int `json:"added" yaml:"added"`
	Updated      int `json:"updated" yaml:"updated"`
	Removed      int `json:"removed" yaml:"removed"`
	Unchanged    int `json:"unchanged" yaml:"unchanged"`
	TotalChanges int `json:"total_changes" yaml:"total_changes"`
}

func calculateSummary(c *Changeset) ChangesetSummary {
	return ChangesetSummary{
		Added:        len(c.Added),
		Updated:      len(c.Updated),
		Removed:      len(c.Removed),
		Unchanged:    c.Unchanged,
		TotalChanges: len(c.Added) + len(c.Updated) + len(c.Removed),
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if n := c.Summary.Added; n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := c.Summary.Updated; n > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", n))
	}
	if n := c.Summary.Removed; n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset to w.
// Added and removed records are labelled with the schema's key columns.
func (c *Changeset) Print(w io.Writer, schema dataset.Schema) {
	_, _ = fmt.Fprintln(w, c.String())
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(c.Added) > 0 {
		_, _ = fmt.Fprintf(w, "\n➕ Added Records (%d):\n", len(c.Added))
		for _, r := range c.Added {
			_, _ = fmt.Fprintf(w, "  • %s\n", label(schema, r))
		}
	}

	if len(c.Updated) > 0 {
		_, _ = fmt.Fprintf(w, "\n🔄 Updated Records (%d):\n", len(c.Updated))
		for _, update := range c.Updated {
			_, _ = fmt.Fprintf(w, "  • %s:\n", label(schema, update.New))
			for _, change := range update.Changes {
				_, _ = fmt.Fprintf(w, "    - %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
			}
		}
	}

	if len(c.Removed) > 0 {
		_, _ = fmt.Fprintf(w, "\n⚠️  Absent From Update (%d):\n", len(c.Removed))
		for _, r := range c.Removed {
			_, _ = fmt.Fprintf(w, "  • %s\n", label(schema, r))
		}
	}
}

func label(schema dataset.Schema, r dataset.Record) string {
	parts := make([]string, 0, len(schema.KeyColumns))
	for _, name := range schema.KeyNames() {
		parts = append(parts, dataset.NormalizeText(r[name]))
	}
	return strings.Join(parts, " / ")
}
