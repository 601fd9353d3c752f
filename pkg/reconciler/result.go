package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
)

// Result represents the outcome of a reconciliation operation.
type Result struct {
	// Dataset is the merged living dataset
	Dataset *dataset.Dataset

	// Report summarizes the merge
	Report Report

	// Updates lists overlapping keys whose values changed
	Updates []differ.RecordUpdate

	// Strategy applied to overlapping keys
	Strategy StrategyType
}

// Report summarizes one reconciliation.
type Report struct {
	DataType dataset.DataType `json:"data_type" yaml:"data_type"`

	// Prior is the number of living records before the merge
	Prior int `json:"prior" yaml:"prior"`
	// Latest is the number of snapshot records
	Latest int `json:"latest" yaml:"latest"`
	// PurgedRetained counts living records kept although the snapshot lacks their key
	PurgedRetained int `json:"purged_retained" yaml:"purged_retained"`
	// PurgedEntities counts living identities absent from the snapshot
	PurgedEntities int      `json:"purged_entities" yaml:"purged_entities"`
	PurgedSample   []string `json:"purged_sample,omitempty" yaml:"purged_sample,omitempty"`
	// NewlyAdded counts snapshot keys the living dataset did not have
	NewlyAdded int `json:"newly_added" yaml:"newly_added"`
	Updated    int `json:"updated" yaml:"updated"`
	Unchanged  int `json:"unchanged" yaml:"unchanged"`
	// DuplicatesDropped counts snapshot rows collapsed by key (last wins)
	DuplicatesDropped       int      `json:"duplicates_dropped" yaml:"duplicates_dropped"`
	LivingDuplicatesDropped int      `json:"living_duplicates_dropped" yaml:"living_duplicates_dropped"`
	ColumnsAdded            []string `json:"columns_added,omitempty" yaml:"columns_added,omitempty"`
	// Total is the number of records after the merge
	Total int `json:"total" yaml:"total"`

	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// HasChanges returns true if the merge added or updated records.
func (r Report) HasChanges() bool {
	return r.NewlyAdded > 0 || r.Updated > 0 || len(r.ColumnsAdded) > 0
}

// String returns a one-line summary of the report.
func (r Report) String() string {
	s := fmt.Sprintf("%s: prior=%d latest=%d purged-retained=%d new=%d updated=%d total=%d",
		r.DataType, r.Prior, r.Latest, r.PurgedRetained, r.NewlyAdded, r.Updated, r.Total)
	if r.PurgedEntities > 0 {
		s += fmt.Sprintf(" (%d purged: %s)", r.PurgedEntities, strings.Join(r.PurgedSample, ", "))
	}
	return s
}

func newResult(dt dataset.DataType, strategy StrategyType, start time.Time) *Result {
	return &Result{
		Strategy: strategy,
		Report: Report{
			DataType:  dt,
			StartTime: start,
		},
	}
}

func (r *Result) finalize(end time.Time) {
	r.Report.Duration = end.Sub(r.Report.StartTime)
}
