package validate

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
)

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ground_data_living.csv"),
		[]byte("Player,Date,Opponent,Event,Result\nAlice,2024-01-01,Bob,UFC 1,W\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ground_data_latest.csv"),
		[]byte("Player,Date\nAlice,2024-01-01\n"), 0o600))

	app := &application.Mock{
		DataDirFunc:      func() string { return dir },
		OutputFormatFunc: func() string { return "json" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ground", "profile"})

	err := cmd.ExecuteContext(context.Background())
	assert.Equal(t, 1, cmdutil.ExitCode(err))

	var reports []Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 4)

	assert.Equal(t, "living", reports[0].Role)
	assert.True(t, reports[0].Present)
	assert.True(t, reports[0].Result.IsValid())

	assert.Equal(t, "latest", reports[1].Role)
	assert.True(t, reports[1].Failed())
	require.NotEmpty(t, reports[1].Result.Errors)
	assert.Equal(t, "required_columns", reports[1].Result.Errors[0].Check)

	assert.False(t, reports[2].Present, "no profile living file")
	assert.False(t, reports[3].Present, "no profile snapshot")
	assert.False(t, reports[3].Failed())
}
