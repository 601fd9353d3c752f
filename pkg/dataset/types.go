// Package dataset defines the tabular data model merged by livingset: the
// fixed set of data types, their schemas and composite keys, the Record and
// Dataset containers, and the CSV codec that loads and writes them.
package dataset

import (
	"fmt"
	"strings"

	"github.com/agentstation/livingset/pkg/errors"
)

// DataType identifies one logical dataset.
type DataType string

// Known data types.
const (
	Ground   DataType = "ground"
	Clinch   DataType = "clinch"
	Striking DataType = "striking"
	Profile  DataType = "profile"
)

// All returns every known data type in processing order.
func All() []DataType {
	return []DataType{Ground, Clinch, Striking, Profile}
}

// String returns the string representation of a data type.
func (t DataType) String() string {
	return string(t)
}

// Valid reports whether t is a known data type.
func (t DataType) Valid() bool {
	_, ok := schemas[t]
	return ok
}

// Schema returns the schema registered for t.
func (t DataType) Schema() Schema {
	return SchemaFor(t)
}

// ParseType resolves a data type from its ID or its default file stem,
// ignoring case ("Striking", "striking_data" and "striking" are equivalent).
func ParseType(s string) (DataType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range All() {
		if v == string(t) || v == schemas[t].Stem {
			return t, nil
		}
	}
	return "", errors.NewConfigError("types", fmt.Sprintf("unknown data type %q (known: %s)", s, knownList()), nil)
}

// ParseTypes resolves a list of data types. Entries may be comma separated.
// Unknown or repeated types are configuration errors. An empty input yields All().
func ParseTypes(values []string) ([]DataType, error) {
	var out []DataType
	seen := make(map[DataType]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := ParseType(part)
			if err != nil {
				return nil, err
			}
			if seen[t] {
				return nil, errors.NewConfigError("types", fmt.Sprintf("data type %q requested more than once", t), nil)
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return All(), nil
	}
	return out, nil
}

func knownList() string {
	names := make([]string, 0, len(schemas))
	for _, t := range All() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
