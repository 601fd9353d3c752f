package merge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/pkg/errors"
	livemerge "github.com/agentstation/livingset/pkg/merge"
)

const header = "Player,Date,Opponent,Event,Result,Strikes\n"

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("no-color", true, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mock(dir, format string) *application.Mock {
	return &application.Mock{
		DataDirFunc:      func() string { return dir },
		OutputFormatFunc: func() string { return format },
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "striking_data_latest.csv"), []byte(header+"Alice,2024-01-01,Bob,UFC 1,W,10\n"), 0o600))

	out, err := run(t, mock(dir, "json"), "striking", "--types", "ground")
	require.NoError(t, err)

	var summary livemerge.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, livemerge.StatusSuccess, summary.Outcomes[0].Status)
	assert.Equal(t, livemerge.StatusSkipped, summary.Outcomes[1].Status)
	assert.FileExists(t, filepath.Join(dir, "striking_data_living.csv"))
}

func TestMergeCommandTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "striking_data_latest.csv"), []byte(header+"Alice,2024-01-01,Bob,UFC 1,W,10\n"), 0o600))

	out, err := run(t, mock(dir, "table"), "striking", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "success (dry run)")
	assert.Contains(t, out, "seeded new living dataset")
	assert.Contains(t, out, "1 succeeded, 0 skipped, 0 failed (Dry run)")
	assert.NoFileExists(t, filepath.Join(dir, "striking_data_living.csv"))
}

func TestMergeCommandPartialFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clinch_data_latest.csv"), []byte("Player\nAlice\n"), 0o600))

	_, err := run(t, mock(dir, "json"), "clinch")
	assert.Equal(t, 1, cmdutil.ExitCode(err))
}

func TestMergeCommandRejectsBadInvocations(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown type", []string{"kicks"}},
		{"duplicate type", []string{"ground", "--types", "ground"}},
		{"negative parallel", []string{"--parallel", "-1"}},
		{"unknown strategy", []string{"--strategy", "oldest-wins"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, mock(t.TempDir(), "json"), tt.args...)
			assert.True(t, errors.IsConfigError(err))
			assert.Equal(t, 2, cmdutil.ExitCode(err))
		})
	}
}

func TestMergeCommandStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
	}{
		{"latest-wins", "Alice,2024-01-01,Bob,UFC 1,W,\n"},
		{"fill-blanks", "Alice,2024-01-01,Bob,UFC 1,W,10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			dir := t.TempDir()
			living := filepath.Join(dir, "striking_data_living.csv")
			require.NoError(t, os.WriteFile(living, []byte(header+"Alice,2024-01-01,Bob,UFC 1,W,10\n"), 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "striking_data_latest.csv"), []byte(header+"Alice,2024-01-01,Bob,UFC 1,W,\n"), 0o600))

			_, err := run(t, mock(dir, "json"), "striking", "--strategy", tt.strategy, "--skip-backup")
			require.NoError(t, err)

			b, err := os.ReadFile(living)
			require.NoError(t, err)
			assert.Equal(t, header+tt.want, string(b))
		})
	}
}
