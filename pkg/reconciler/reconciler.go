// Package reconciler merges a fresh snapshot into a living dataset without
// losing records. Keys present in the snapshot take the snapshot's values;
// keys only the living dataset knows are retained as they were.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
)

// Reconciler is the main interface for reconciling a living dataset with a snapshot.
type Reconciler interface {
	// Reconcile merges latest into living. A nil living dataset seeds the
	// result from latest. Neither input is modified.
	Reconcile(ctx context.Context, living, latest *dataset.Dataset) (*Result, error)

	// Strategy returns the strategy applied to overlapping keys.
	Strategy() Strategy
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	options *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{options: options}, nil
}

// Strategy implements Reconciler.
func (r *reconciler) Strategy() Strategy {
	return r.options.strategy
}

// Reconcile performs the merge in four steps: dedupe both inputs, walk the
// snapshot resolving overlaps against living, append living records whose keys
// the snapshot lacks, then count purged identities.
func (r *reconciler) Reconcile(ctx context.Context, living, latest *dataset.Dataset) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, &errors.ValidationError{Field: "latest", Message: "snapshot is required"}
	}
	dt := latest.Type
	if living != nil && living.Type != "" && dt != "" && living.Type != dt {
		return nil, &errors.ValidationError{
			Field:   "type",
			Value:   living.Type,
			Message: fmt.Sprintf("cannot reconcile %s living dataset with %s snapshot", living.Type, dt),
		}
	}
	if dt == "" && living != nil {
		dt = living.Type
	}

	logger := logging.FromContext(ctx)
	schema := dataset.SchemaFor(dt)
	result := newResult(dt, r.options.strategy.Type(), r.options.now())

	// Step 1: dedupe working copies
	prior := living.Clone()
	if prior == nil {
		prior = dataset.New(dt, nil)
	}
	fresh := latest.Clone()
	result.Report.Prior = prior.Len()
	result.Report.Latest = fresh.Len()
	result.Report.LivingDuplicatesDropped = prior.Dedupe(schema)
	result.Report.DuplicatesDropped = fresh.Dedupe(schema)

	merged := dataset.New(dt, dataset.UnionColumns(fresh.Columns, prior.Columns))
	merged.Records = make([]dataset.Record, 0, prior.Len()+fresh.Len())
	for _, c := range merged.Columns {
		if !prior.HasColumn(c) && len(prior.Columns) > 0 {
			result.Report.ColumnsAdded = append(result.Report.ColumnsAdded, c)
		}
	}

	livingByKey := make(map[dataset.Key]dataset.Record, prior.Len())
	for _, rec := range prior.Records {
		livingByKey[schema.KeyOf(rec)] = rec
	}

	// Step 2: snapshot records, resolving overlaps
	seen := make(map[dataset.Key]bool, fresh.Len())
	for _, rec := range fresh.Records {
		key := schema.KeyOf(rec)
		seen[key] = true

		old, overlaps := livingByKey[key]
		if !overlaps {
			result.Report.NewlyAdded++
			merged.Add(rec)
			continue
		}

		resolved := r.options.strategy.Resolve(old, rec, fresh.Columns)
		merged.Add(resolved)
		if update := r.options.differ.Record(key, conform(old, merged.Columns), conform(resolved, merged.Columns)); update != nil {
			result.Report.Updated++
			result.Updates = append(result.Updates, *update)
		} else {
			result.Report.Unchanged++
		}
	}

	// Step 3: retain living records the snapshot no longer carries
	for _, rec := range prior.Records {
		if seen[schema.KeyOf(rec)] {
			continue
		}
		result.Report.PurgedRetained++
		merged.Add(rec)
	}

	// Step 4: purged identities
	freshIDs, _ := fresh.Identities(schema)
	present := make(map[string]bool, len(freshIDs))
	for _, id := range freshIDs {
		present[id] = true
	}
	priorIDs, display := prior.Identities(schema)
	for _, id := range priorIDs {
		if present[id] {
			continue
		}
		result.Report.PurgedEntities++
		if len(result.Report.PurgedSample) < r.options.sampleSize {
			result.Report.PurgedSample = append(result.Report.PurgedSample, display[id])
		}
	}

	result.Dataset = merged
	result.Report.Total = merged.Len()
	result.finalize(r.options.now())

	logger.Debug().
		Str("data_type", dt.String()).
		Str("strategy", r.options.strategy.Type().String()).
		Int("prior", result.Report.Prior).
		Int("latest", result.Report.Latest).
		Int("purged_retained", result.Report.PurgedRetained).
		Int("newly_added", result.Report.NewlyAdded).
		Int("updated", result.Report.Updated).
		Int("total", result.Report.Total).
		Msg("Reconciled datasets")

	return result, nil
}

func conform(r dataset.Record, columns []string) dataset.Record {
	out := make(dataset.Record, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}
