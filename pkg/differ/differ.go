package differ

import (
	"sort"
	"unicode/utf8"

	"github.com/agentstation/livingset/pkg/dataset"
)

// Differ handles change detection between two versions of a dataset.
type Differ interface {
	// Records compares two record sets keyed by schema and returns changes
	Records(schema dataset.Schema, existing, updated []dataset.Record) *Changeset

	// Record compares two versions of one record cell by cell.
	// It returns nil when they hold the same values.
	Record(key dataset.Key, existing, updated dataset.Record) *RecordUpdate
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
	blankIsEqual bool
	maxValueLen  int
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
		maxValueLen:  50,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Records compares two record sets and returns changes.
// When a side repeats a key, its last record is the one compared.
func (diff *differ) Records(schema dataset.Schema, existing, updated []dataset.Record) *Changeset {
	changeset := &Changeset{
		Added:   []dataset.Record{},
		Updated: []RecordUpdate{},
		Removed: []dataset.Record{},
	}

	existingMap, existingOrder := index(schema, existing)
	newMap, newOrder := index(schema, updated)

	for _, key := range newOrder {
		newRecord := newMap[key]
		if existingRecord, exists := existingMap[key]; exists {
			if update := diff.Record(key, existingRecord, newRecord); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			} else {
				changeset.Unchanged++
			}
		} else {
			changeset.Added = append(changeset.Added, newRecord)
		}
	}

	for _, key := range existingOrder {
		if _, exists := newMap[key]; !exists {
			changeset.Removed = append(changeset.Removed, existingMap[key])
		}
	}

	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// Record compares two versions of one record.
func (diff *differ) Record(key dataset.Key, existing, updated dataset.Record) *RecordUpdate {
	var changes []FieldChange

	for _, column := range columnsOf(existing, updated) {
		if diff.ignoreFields[column] {
			continue
		}
		oldValue, hadOld := existing[column]
		newValue, hasNew := updated[column]
		if oldValue == newValue {
			continue
		}
		if diff.blankIsEqual && (oldValue == "" || newValue == "") {
			continue
		}

		change := FieldChange{
			Path:     column,
			OldValue: truncateString(oldValue, diff.maxValueLen),
			NewValue: truncateString(newValue, diff.maxValueLen),
			Type:     ChangeTypeUpdate,
		}
		switch {
		case !hadOld || (oldValue == "" && hasNew):
			change.Type = ChangeTypeAdd
		case !hasNew || newValue == "":
			change.Type = ChangeTypeRemove
		}
		changes = append(changes, change)
	}

	if len(changes) == 0 {
		return nil
	}

	return &RecordUpdate{
		Key:      key,
		Existing: existing,
		New:      updated,
		Changes:  changes,
	}
}

func index(schema dataset.Schema, records []dataset.Record) (map[dataset.Key]dataset.Record, []dataset.Key) {
	m := make(map[dataset.Key]dataset.Record, len(records))
	order := make([]dataset.Key, 0, len(records))
	for _, r := range records {
		key := schema.KeyOf(r)
		if _, seen := m[key]; !seen {
			order = append(order, key)
		}
		m[key] = r
	}
	return m, order
}

// columnsOf returns the union of both records' columns, sorted.
func columnsOf(a, b dataset.Record) []string {
	seen := make(map[string]bool, len(a)+len(b))
	columns := make([]string, 0, len(a)+len(b))
	for _, r := range []dataset.Record{a, b} {
		for c := range r {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// truncateString shortens s to maxLen runes, never splitting a character.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
