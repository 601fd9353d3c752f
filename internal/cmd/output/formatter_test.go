package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, []string{"Data Type", "Purged Retained", "Total"}, Headers("data_type", "purged_retained", "total"))
}

func TestRender(t *testing.T) {
	raw := map[string]int{"total": 3}
	table := func() Data {
		return Data{Headers: []string{"Type", "Total"}, Rows: [][]string{{"ground", "3"}}}
	}

	var js bytes.Buffer
	require.NoError(t, Render(&js, FormatJSON, raw, table))
	assert.JSONEq(t, `{"total": 3}`, js.String())

	var ym bytes.Buffer
	require.NoError(t, Render(&ym, FormatYAML, raw, table))
	assert.Equal(t, "total: 3\n", ym.String())

	var tb bytes.Buffer
	require.NoError(t, Render(&tb, FormatTable, raw, table))
	assert.Contains(t, tb.String(), "ground")
	assert.Contains(t, strings.ToUpper(tb.String()), "TOTAL")
}
