package alerts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/merge"
	"github.com/agentstation/livingset/pkg/reconciler"
	"github.com/agentstation/livingset/pkg/validation"
)

func TestFromOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome *merge.Outcome
		level   Level
		details []string
	}{
		{
			name: "merged with purged entities",
			outcome: &merge.Outcome{
				DataType:         dataset.Ground,
				Status:           merge.StatusSuccess,
				LatestValidation: &validation.Result{Valid: true},
				Report:           &reconciler.Report{Prior: 2, Latest: 1, PurgedEntities: 1, PurgedSample: []string{"Bob"}, Total: 3},
				Backup:           backup.Handle{Path: "/d/ground_data_living_20240309.csv", Created: true},
			},
			level: LevelSuccess,
			details: []string{
				"1 entities missing from snapshot, retained (e.g. Bob)",
				"backup /d/ground_data_living_20240309.csv",
			},
		},
		{
			name: "forced past validation",
			outcome: &merge.Outcome{
				DataType:         dataset.Clinch,
				Status:           merge.StatusSuccess,
				Forced:           true,
				Seeded:           true,
				LatestValidation: &validation.Result{Valid: false},
			},
			level:   LevelWarning,
			details: []string{"validation failed, merged with --force", "seeded new living dataset"},
		},
		{
			name:    "skipped",
			outcome: (&merge.Outcome{DataType: dataset.Profile}).Skip("latest snapshot not found"),
			level:   LevelSkipped,
		},
		{
			name:    "failed",
			outcome: (&merge.Outcome{DataType: dataset.Striking}).Fail(assert.AnError),
			level:   LevelError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromOutcome(tt.outcome)
			assert.Equal(t, tt.level, a.Level)
			assert.Equal(t, tt.details, a.Details)
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	require.NoError(t, w.Write(NewSuccess("ground merged").WithDetails("backup x.csv")))
	require.NoError(t, w.Write(NewError("striking").WithError(assert.AnError)))

	assert.Equal(t, "✓ ground merged\n    backup x.csv\n✗ striking: "+assert.AnError.Error()+"\n", buf.String())
}
