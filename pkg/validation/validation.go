// Package validation checks a loaded dataset against its data type's schema
// before it takes part in a merge.
//
// Errors fail the dataset: the header lacks required columns, the dataset is
// tagged with another type, or rows were quarantined while loading.
// Warnings are reported but do not fail it: the dataset is empty, composite
// keys repeat, or two distinct identities look like spellings of one fighter.
package validation

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/agentstation/livingset/pkg/dataset"
)

// maxReported bounds how many examples one issue lists.
const maxReported = 5

// Validator validates datasets.
type Validator struct {
	options *options
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	o := defaultOptions()
	o.apply(opts...)
	return &Validator{options: o}
}

// ForRole returns a copy of v whose results are labelled with role.
func (v *Validator) ForRole(role string) *Validator {
	o := *v.options
	o.role = role
	return &Validator{options: &o}
}

// Validate checks ds as a dataset of type dt. A nil dataset is an absent one:
// empty, with the schema's required columns.
func (v *Validator) Validate(ds *dataset.Dataset, dt dataset.DataType) *Result {
	result := &Result{DataType: dt, Role: v.options.role, Valid: true}
	if ds == nil {
		ds = dataset.New(dt, dataset.SchemaFor(dt).RequiredColumns)
	}
	result.Source = ds.Source
	result.Records = ds.Len()
	schema := dataset.SchemaFor(dt)

	if !dt.Valid() {
		result.addError(CheckTypeMatch, "unknown data type %q", dt)
		return result
	}
	if ds.Type != "" && ds.Type != dt {
		result.addError(CheckTypeMatch, "dataset is tagged %q, expected %q", ds.Type, dt)
	}

	if ds.Len() == 0 {
		result.addWarning(CheckNonEmpty, "dataset has no records")
	}

	if missing := schema.MissingColumns(ds.Columns); len(missing) > 0 {
		result.addError(CheckRequiredColumns, "missing required columns: %s", strings.Join(missing, ", "))
	}

	if n := len(ds.Rejected); n > 0 {
		examples := make([]string, 0, maxReported)
		for _, row := range ds.Rejected[:min(n, maxReported)] {
			examples = append(examples, fmt.Sprintf("line %d: %s", row.Line, row.Reason))
		}
		result.addError(CheckRejectedRows, "%d unparseable rows (%s)", n, strings.Join(examples, "; "))
	}

	v.checkDuplicates(result, ds, schema)
	v.checkNearDuplicates(result, ds, schema)

	return result
}

func (v *Validator) checkDuplicates(result *Result, ds *dataset.Dataset, schema dataset.Schema) {
	counts := make(map[dataset.Key]int, ds.Len())
	var order []dataset.Key
	for _, key := range ds.Keys(schema) {
		if counts[key] == 1 {
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		return
	}

	extra := 0
	examples := make([]string, 0, maxReported)
	for _, key := range order {
		extra += counts[key] - 1
		if len(examples) < maxReported {
			examples = append(examples, fmt.Sprintf("%s (x%d)", key, counts[key]))
		}
	}
	result.addWarning(CheckDuplicateKeys, "%d duplicate rows across %d keys; last occurrence wins (%s)",
		extra, len(order), strings.Join(examples, "; "))
}

func (v *Validator) checkNearDuplicates(result *Result, ds *dataset.Dataset, schema dataset.Schema) {
	threshold := v.options.similarityThreshold
	if threshold <= 0 {
		return
	}

	ids, display := ds.Identities(schema)
	if len(ids) > v.options.maxSimilarityIdentities {
		return
	}

	var pairs []string
	total := 0
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			similarity := matchr.JaroWinkler(ids[i], ids[j], false)
			if similarity < threshold {
				continue
			}
			total++
			if len(pairs) < maxReported {
				pairs = append(pairs, fmt.Sprintf("%q ~ %q (%.2f)", display[ids[i]], display[ids[j]], similarity))
			}
		}
	}
	if total > 0 {
		result.addWarning(CheckNearDuplicates, "%d identity pairs may name the same %s: %s",
			total, strings.ToLower(schema.IdentityColumn()), strings.Join(pairs, "; "))
	}
}
