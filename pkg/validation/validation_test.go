package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/validation"
)

var fightColumns = []string{"Player", "Date", "Opponent", "Event", "Result"}

func fight(player, date, opponent string) dataset.Record {
	return dataset.Record{"Player": player, "Date": date, "Opponent": opponent, "Event": "UFC", "Result": "W"}
}

func checks(issues []validation.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Check
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		build        func() *dataset.Dataset
		dt           dataset.DataType
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name: "clean dataset",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Ground, fightColumns)
				ds.Add(fight("Fighter A", "2023-01-01", "Opp X"))
				ds.Add(fight("Fighter B", "2022-05-05", "Opp Y"))
				return ds
			},
			dt:        dataset.Ground,
			wantValid: true,
		},
		{
			name:         "empty dataset warns",
			build:        func() *dataset.Dataset { return dataset.New(dataset.Ground, fightColumns) },
			dt:           dataset.Ground,
			wantValid:    true,
			wantWarnings: []string{validation.CheckNonEmpty},
		},
		{
			name: "missing required columns",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Clinch, []string{"Player", "Date"})
				ds.Add(dataset.Record{"Player": "A", "Date": "2023-01-01"})
				return ds
			},
			dt:         dataset.Clinch,
			wantErrors: []string{validation.CheckRequiredColumns},
		},
		{
			name: "rejected rows",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Striking, fightColumns)
				ds.Add(fight("Fighter A", "2023-01-01", "Opp X"))
				ds.Rejected = []dataset.RejectedRow{{Line: 3, Reason: "expected 5 fields, got 4"}}
				return ds
			},
			dt:         dataset.Striking,
			wantErrors: []string{validation.CheckRejectedRows},
		},
		{
			name: "type mismatch",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Profile, fightColumns)
				ds.Add(fight("Fighter A", "2023-01-01", "Opp X"))
				return ds
			},
			dt:         dataset.Ground,
			wantErrors: []string{validation.CheckTypeMatch},
		},
		{
			name: "duplicate keys warn",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Ground, fightColumns)
				ds.Add(fight("Fighter A", "2023-01-01", "Opp X"))
				ds.Add(fight("FighterA", "Jan 1, 2023", "opp x"))
				return ds
			},
			dt:           dataset.Ground,
			wantValid:    true,
			wantWarnings: []string{validation.CheckDuplicateKeys},
		},
		{
			name: "near duplicate identities warn",
			build: func() *dataset.Dataset {
				ds := dataset.New(dataset.Profile, []string{"Name"})
				ds.Add(dataset.Record{"Name": "Khabib Nurmagomedov"})
				ds.Add(dataset.Record{"Name": "Khabib Nurmagomedow"})
				ds.Add(dataset.Record{"Name": "Israel Adesanya"})
				return ds
			},
			dt:           dataset.Profile,
			wantValid:    true,
			wantWarnings: []string{validation.CheckNearDuplicates},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validation.New().Validate(tt.build(), tt.dt)

			assert.Equal(t, tt.wantValid, result.IsValid())
			assert.ElementsMatch(t, tt.wantErrors, checks(result.Errors))
			assert.ElementsMatch(t, tt.wantWarnings, checks(result.Warnings))
		})
	}
}

func TestNearDuplicateOptions(t *testing.T) {
	ds := dataset.New(dataset.Profile, []string{"Name"})
	ds.Add(dataset.Record{"Name": "Khabib Nurmagomedov"})
	ds.Add(dataset.Record{"Name": "Khabib Nurmagomedow"})

	t.Run("zero threshold disables", func(t *testing.T) {
		result := validation.New(validation.WithSimilarityThreshold(0)).Validate(ds, dataset.Profile)
		assert.False(t, result.HasWarnings())
	})

	t.Run("identity cap skips check", func(t *testing.T) {
		result := validation.New(validation.WithMaxSimilarityIdentities(1)).Validate(ds, dataset.Profile)
		assert.False(t, result.HasWarnings())
	})

	t.Run("message names both spellings", func(t *testing.T) {
		result := validation.New().Validate(ds, dataset.Profile)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0].Message, `"Khabib Nurmagomedov" ~ "Khabib Nurmagomedow"`)
	})
}

func TestResultErr(t *testing.T) {
	v := validation.New().ForRole("latest")
	ds := dataset.New(dataset.Ground, []string{"Player"})

	result := v.Validate(ds, dataset.Ground)
	err := result.Err()

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	var dve *errors.DatasetValidationError
	require.True(t, errors.As(err, &dve))
	assert.Equal(t, "ground", dve.DataType)
	assert.Equal(t, "latest", dve.Role)
	assert.Contains(t, err.Error(), "required_columns: missing required columns: Date, Opponent, Event, Result")
	assert.Equal(t, "Validation failed with 1 errors", result.String())

	ok := validation.New().Validate(nil, dataset.Profile)
	assert.Equal(t, "Validation passed with 1 warnings", ok.String())
}
