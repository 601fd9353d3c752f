package dataset

import (
	"slices"
	"sort"
)

// Record is one row: column name to cell value.
type Record map[string]string

// Clone returns a copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether r and other hold the same cells.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// RejectedRow is an input row that did not conform and was quarantined.
type RejectedRow struct {
	Line   int      `json:"line" yaml:"line"`
	Fields []string `json:"fields" yaml:"fields"`
	Reason string   `json:"reason" yaml:"reason"`
}

// Dataset is an ordered collection of records sharing one header.
// Every record holds exactly the dataset's columns.
type Dataset struct {
	Type     DataType
	Columns  []string
	Records  []Record
	Rejected []RejectedRow

	// Source is the file the dataset was read from, if any.
	Source string
}

// New returns an empty dataset with the given header.
func New(t DataType, columns []string) *Dataset {
	return &Dataset{Type: t, Columns: append([]string(nil), columns...)}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasColumn reports whether name is part of the header.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// Add appends a copy of r shaped to the header. Cells for missing columns are
// empty; columns unknown to the header are appended to it in sorted order.
func (d *Dataset) Add(r Record) {
	var extra []string
	for k := range r {
		if !d.HasColumn(k) {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		d.Conform(append(append([]string(nil), d.Columns...), extra...))
	}
	d.Records = append(d.Records, d.shape(r))
}

// Conform reshapes every record to columns. Cells of dropped columns are discarded.
func (d *Dataset) Conform(columns []string) {
	d.Columns = append([]string(nil), columns...)
	for i, r := range d.Records {
		d.Records[i] = d.shape(r)
	}
}

func (d *Dataset) shape(r Record) Record {
	out := make(Record, len(d.Columns))
	for _, c := range d.Columns {
		out[c] = r[c]
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Type:     d.Type,
		Columns:  append([]string(nil), d.Columns...),
		Records:  make([]Record, len(d.Records)),
		Rejected: append([]RejectedRow(nil), d.Rejected...),
		Source:   d.Source,
	}
	for i, r := range d.Records {
		out.Records[i] = r.Clone()
	}
	return out
}

// Keys returns the composite key of every record, in record order.
func (d *Dataset) Keys(s Schema) []Key {
	keys := make([]Key, len(d.Records))
	for i, r := range d.Records {
		keys[i] = s.KeyOf(r)
	}
	return keys
}

// Identities returns the distinct identities in first-seen order, keyed to a
// display value taken from the first record that carried them.
func (d *Dataset) Identities(s Schema) ([]string, map[string]string) {
	col := s.IdentityColumn()
	var order []string
	display := make(map[string]string)
	for _, r := range d.Records {
		id := s.IdentityOf(r)
		if id == "" {
			continue
		}
		if _, ok := display[id]; !ok {
			display[id] = NormalizeText(r[col])
			order = append(order, id)
		}
	}
	return order, display
}

// Dedupe collapses records sharing a composite key. The surviving record keeps
// the position of the key's first occurrence and the value of its last.
// It returns the number of records dropped.
func (d *Dataset) Dedupe(s Schema) int {
	pos := make(map[Key]int, len(d.Records))
	out := d.Records[:0:0]
	for _, r := range d.Records {
		k := s.KeyOf(r)
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	dropped := len(d.Records) - len(out)
	d.Records = out
	return dropped
}

// UnionColumns returns primary followed by the columns of secondary it lacks,
// in secondary order.
func UnionColumns(primary, secondary []string) []string {
	out := append([]string(nil), primary...)
	seen := make(map[string]bool, len(primary))
	for _, c := range primary {
		seen[c] = true
	}
	for _, c := range secondary {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
