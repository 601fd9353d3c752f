package livingset

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout("data")
	assert.Equal(t, dataset.All(), l.Types())

	p, err := l.Paths(dataset.Profile)
	require.NoError(t, err)
	assert.Equal(t, Paths{
		Stem:       "fighter_profiles",
		Living:     filepath.Join("data", "fighter_profiles_living.csv"),
		Latest:     filepath.Join("data", "fighter_profiles_latest.csv"),
		Raw:        filepath.Join("data", "fighter_profiles.csv"),
		BackupDir:  "data",
		Quarantine: "data",
	}, p)

	_, err = Layout{}.Paths(dataset.Ground)
	assert.True(t, errors.IsConfigError(err))
}

func TestQuarantinePath(t *testing.T) {
	p := DefaultPaths("data", "ground_data")
	assert.Equal(t, filepath.Join("data", "ground_data_quarantine_20240309.csv"), p.QuarantinePath("latest", today))
	assert.Equal(t, filepath.Join("data", "ground_data_living_quarantine_20240309.csv"), p.QuarantinePath("living", today))
}

func TestLayoutWithOverrides(t *testing.T) {
	l := DefaultLayout("data").WithOverrides("data", map[dataset.DataType]Override{
		dataset.Ground:   {Stem: "ground"},
		dataset.Striking: {Living: "master/striking.csv", BackupDir: "/backups"},
	})

	ground, err := l.Paths(dataset.Ground)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "ground_living.csv"), ground.Living)
	assert.Equal(t, filepath.Join("data", "ground_latest.csv"), ground.Latest)

	striking, err := l.Paths(dataset.Striking)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "master", "striking.csv"), striking.Living)
	assert.Equal(t, filepath.Join("data", "striking_data_latest.csv"), striking.Latest)
	assert.Equal(t, "/backups", striking.BackupDir)

	unchanged, err := DefaultLayout("data").Paths(dataset.Ground)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "ground_data_living.csv"), unchanged.Living, "original layout untouched")
}

var today = time.Date(2024, time.March, 9, 23, 59, 0, 0, time.UTC)
