package types

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/cmd/application"
)

func TestTypesCommand(t *testing.T) {
	dir := t.TempDir()
	app := &application.Mock{
		DataDirFunc:      func() string { return dir },
		OutputFormatFunc: func() string { return "json" },
	}

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	var infos []Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 4)

	assert.Equal(t, "ground", infos[0].DataType.String())
	assert.Equal(t, []string{"Player", "Date", "Opponent"}, infos[0].Key)
	assert.Equal(t, filepath.Join(dir, "ground_data_living.csv"), infos[0].Living)

	assert.Equal(t, "profile", infos[3].DataType.String())
	assert.Equal(t, []string{"Name"}, infos[3].Key)
	assert.Equal(t, filepath.Join(dir, "fighter_profiles_latest.csv"), infos[3].Latest)
}
