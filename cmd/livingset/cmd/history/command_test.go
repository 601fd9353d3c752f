package history

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/pkg/history"
)

func seededLedger(t *testing.T) history.Ledger {
	t.Helper()
	ctx := context.Background()
	store, err := history.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, "run-1", history.Entry{DataType: "striking", Status: "success", Total: 3, StartedAt: start}))
	require.NoError(t, store.Record(ctx, "run-1", history.Entry{DataType: "profile", Status: "skipped", StartedAt: start}))
	require.NoError(t, store.Record(ctx, "run-2", history.Entry{DataType: "striking", Status: "success", Total: 4, StartedAt: start.Add(time.Hour)}))
	return store
}

func run(t *testing.T, app *application.Mock, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHistoryCommand(t *testing.T) {
	ledger := seededLedger(t)
	app := &application.Mock{
		HistoryFunc:      func(context.Context) (history.Ledger, error) { return ledger, nil },
		OutputFormatFunc: func() string { return "json" },
	}

	tests := []struct {
		name   string
		args   []string
		totals []int
	}{
		{name: "all newest first", args: nil, totals: []int{4, 0, 3}},
		{name: "by type", args: []string{"--type", "striking"}, totals: []int{4, 3}},
		{name: "by run", args: []string{"--run", "run-1"}, totals: []int{0, 3}},
		{name: "limit", args: []string{"-n", "1"}, totals: []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, app, tt.args...)
			require.NoError(t, err)

			var entries []history.Entry
			require.NoError(t, json.Unmarshal([]byte(out), &entries))
			totals := make([]int, len(entries))
			for i, e := range entries {
				totals[i] = e.Total
			}
			assert.Equal(t, tt.totals, totals)
		})
	}
}

func TestHistoryCommandDisabled(t *testing.T) {
	app := &application.Mock{}
	_, err := run(t, app)
	require.Error(t, err)
	assert.Equal(t, 2, cmdutil.ExitCode(err))
	assert.Contains(t, err.Error(), "disabled")
}
