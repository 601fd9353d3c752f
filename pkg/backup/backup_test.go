package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/errors"
)

var day = time.Date(2024, time.March, 9, 18, 30, 0, 0, time.UTC)

func writeLiving(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ground_data_living.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "ground_data_living_20240309.csv"), backup.Path(filepath.Join("data", "ground_data_living.csv"), "", day))
	assert.Equal(t, filepath.Join("bk", "ground_data_living_20240309.csv"), backup.Path(filepath.Join("data", "ground_data_living.csv"), "bk", day))
}

func TestCreateIsWriteOncePerDay(t *testing.T) {
	dir := t.TempDir()
	living := writeLiving(t, dir, "Player\nA\n")

	first, err := backup.Create(living, "", day)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "20240309", first.Date)

	require.NoError(t, os.WriteFile(living, []byte("Player\nA\nB\n"), 0o600))

	second, err := backup.Create(living, "", day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Path, second.Path)

	content, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "Player\nA\n", string(content), "the day's backup must not be overwritten")

	handles, err := backup.List(living, "")
	require.NoError(t, err)
	assert.Len(t, handles, 1)
}

func TestCreateWithoutLiving(t *testing.T) {
	h, err := backup.Create(filepath.Join(t.TempDir(), "ground_data_living.csv"), "", day)
	require.NoError(t, err)
	assert.False(t, h.Created)
	assert.False(t, h.Exists())
}

func TestCreateInSeparateDirectory(t *testing.T) {
	dir := t.TempDir()
	living := writeLiving(t, dir, "Player\nA\n")
	backups := filepath.Join(dir, "backups")

	h, err := backup.Create(living, backups, day)
	require.NoError(t, err)
	assert.True(t, h.Created)
	assert.Equal(t, filepath.Join(backups, "ground_data_living_20240309.csv"), h.Path)
	assert.Equal(t, int64(len("Player\nA\n")), h.Size)
}

func TestListAndFind(t *testing.T) {
	dir := t.TempDir()
	living := writeLiving(t, dir, "Player\nA\n")

	for _, d := range []time.Time{day, day.AddDate(0, 0, -30), day.AddDate(0, 0, 1)} {
		_, err := backup.Create(living, "", d)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ground_data_living_notadate.csv"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ground_data_living_2024031x.csv"), nil, 0o600))

	handles, err := backup.List(living, "")
	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, []string{"20240208", "20240309", "20240310"}, []string{handles[0].Date, handles[1].Date, handles[2].Date})

	h, err := backup.Find(living, "", "20240309")
	require.NoError(t, err)
	assert.Equal(t, handles[1].Path, h.Path)

	_, err = backup.Find(living, "", "20200101")
	assert.True(t, errors.IsNotFound(err))

	_, err = backup.Find(living, "", "2024-03-09")
	assert.True(t, errors.IsValidationError(err))
}
