package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/cmd/application"
)

func TestVersionCommand(t *testing.T) {
	app := &application.Mock{
		VersionFunc: func() string { return "v1.2.3" },
		CommitFunc:  func() string { return "abc123" },
	}

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{name: "short", contains: []string{"livingset v1.2.3"}, excludes: []string{"abc123"}},
		{name: "verbose", args: []string{"--verbose"}, contains: []string{"livingset v1.2.3", "commit:   abc123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(app)
			cmd.Flags().Bool("verbose", false, "")
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())

			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}
