package merge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/merge"
	"github.com/agentstation/livingset/pkg/reconciler"
)

func TestOptions(t *testing.T) {
	o := merge.Defaults().Apply(
		merge.WithSkipBackup(true),
		merge.WithForce(true),
		merge.WithDryRun(true),
		merge.WithVerbose(true),
		merge.WithPrepare(true),
		merge.WithParallel(3),
	)

	assert.Equal(t, &merge.Options{SkipBackup: true, Force: true, DryRun: true, Verbose: true, Prepare: true, Parallel: 3}, o)
	assert.NoError(t, o.Validate())
	assert.Equal(t, 3, o.Workers())
	assert.Equal(t, 1, merge.Defaults().Workers())

	err := merge.Defaults().Apply(merge.WithParallel(-1)).Validate()
	assert.True(t, errors.IsConfigError(err))
}

func TestSummary(t *testing.T) {
	s := &merge.Summary{Outcomes: []*merge.Outcome{
		{DataType: dataset.Ground, Status: merge.StatusSuccess},
		(&merge.Outcome{DataType: dataset.Clinch}).Skip("latest snapshot not found"),
	}}

	assert.Equal(t, merge.ExitOK, s.ExitCode())
	assert.Equal(t, "1 succeeded, 1 skipped, 0 failed", s.String())

	s.Outcomes = append(s.Outcomes, (&merge.Outcome{DataType: dataset.Striking}).Fail(assert.AnError))
	s.DryRun = true
	assert.Equal(t, merge.ExitPartialFailure, s.ExitCode())
	assert.Equal(t, "1 succeeded, 1 skipped, 1 failed (Dry run)", s.String())
	assert.Equal(t, assert.AnError, s.Outcome(dataset.Striking).Err)
	assert.Nil(t, s.Outcome(dataset.Profile))
}

func TestOutcomeEntry(t *testing.T) {
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	o := &merge.Outcome{
		DataType:  dataset.Ground,
		Status:    merge.StatusSuccess,
		Report:    &reconciler.Report{DataType: dataset.Ground, Prior: 2, Latest: 1, PurgedRetained: 1, NewlyAdded: 1, Total: 3},
		Backup:    backup.Handle{Path: "/d/ground_data_living_20240309.csv", Created: true},
		StartedAt: start,
		Duration:  time.Second,
	}

	e := o.Entry()
	assert.Equal(t, "ground", e.DataType)
	assert.Equal(t, "success", e.Status)
	assert.Equal(t, 3, e.Total)
	assert.Equal(t, 1, e.PurgedRetained)
	assert.Equal(t, "/d/ground_data_living_20240309.csv", e.BackupPath)
	assert.Equal(t, "ground: prior=2 latest=1 purged-retained=1 new=1 updated=0 total=3", o.String())

	failed := (&merge.Outcome{DataType: dataset.Profile}).Fail(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), failed.Entry().Error)
	assert.Contains(t, failed.String(), "profile: failed (")
}
