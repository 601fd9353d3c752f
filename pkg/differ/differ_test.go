package differ_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
)

func profile(name, weight string) dataset.Record {
	return dataset.Record{"Name": name, "Weight": weight}
}

func TestRecords(t *testing.T) {
	schema := dataset.SchemaFor(dataset.Profile)
	existing := []dataset.Record{
		profile("Fighter A", "155"),
		profile("Fighter B", "170"),
		profile("Fighter C", "185"),
	}
	updated := []dataset.Record{
		profile("fighter a", "155"),
		profile("Fighter B", "165"),
		profile("Fighter D", "125"),
	}

	cs := differ.New().Records(schema, existing, updated)

	assert.Equal(t, differ.ChangesetSummary{Added: 1, Updated: 2, Removed: 1, Unchanged: 0, TotalChanges: 4}, cs.Summary)
	require.Len(t, cs.Updated, 2)
	assert.Equal(t, dataset.Key("fightera"), cs.Updated[0].Key)
	assert.Equal(t, "Name", cs.Updated[0].Changes[0].Path)
	assert.Equal(t, []differ.FieldChange{{Path: "Weight", OldValue: "170", NewValue: "165", Type: differ.ChangeTypeUpdate}}, cs.Updated[1].Changes)
	assert.Equal(t, "Fighter D", cs.Added[0]["Name"])
	assert.Equal(t, "Fighter C", cs.Removed[0]["Name"])
	assert.True(t, cs.HasChanges())
	assert.Equal(t, "Changeset: 1 added, 2 updated, 1 removed (Total: 4 changes)", cs.String())
}

func TestRecordsIgnoredFields(t *testing.T) {
	schema := dataset.SchemaFor(dataset.Profile)
	d := differ.New(differ.WithIgnoredFields("Name", "Weight"))

	cs := d.Records(schema, []dataset.Record{profile("Fighter A", "155")}, []dataset.Record{profile("FIGHTER A", "145")})

	assert.True(t, cs.IsEmpty())
	assert.Equal(t, 1, cs.Summary.Unchanged)
	assert.Equal(t, "No changes detected", cs.String())
}

func TestRecordChangeTypes(t *testing.T) {
	tests := []struct {
		name     string
		existing dataset.Record
		updated  dataset.Record
		opts     []differ.Option
		want     []differ.FieldChange
	}{
		{
			name:     "identical",
			existing: dataset.Record{"a": "1"},
			updated:  dataset.Record{"a": "1"},
		},
		{
			name:     "filled cell",
			existing: dataset.Record{"a": ""},
			updated:  dataset.Record{"a": "1"},
			want:     []differ.FieldChange{{Path: "a", NewValue: "1", Type: differ.ChangeTypeAdd}},
		},
		{
			name:     "new column",
			existing: dataset.Record{},
			updated:  dataset.Record{"b": "x"},
			want:     []differ.FieldChange{{Path: "b", NewValue: "x", Type: differ.ChangeTypeAdd}},
		},
		{
			name:     "cleared cell",
			existing: dataset.Record{"a": "1"},
			updated:  dataset.Record{"a": ""},
			want:     []differ.FieldChange{{Path: "a", OldValue: "1", Type: differ.ChangeTypeRemove}},
		},
		{
			name:     "blank treated as equal",
			existing: dataset.Record{"a": "1"},
			updated:  dataset.Record{"a": ""},
			opts:     []differ.Option{differ.WithBlankAsEqual(true)},
		},
		{
			name:     "truncated values",
			existing: dataset.Record{"a": "abcdefghij"},
			updated:  dataset.Record{"a": "klmnopqrst"},
			opts:     []differ.Option{differ.WithMaxValueLength(6)},
			want:     []differ.FieldChange{{Path: "a", OldValue: "abc...", NewValue: "klm...", Type: differ.ChangeTypeUpdate}},
		},
		{
			name:     "truncation keeps whole characters",
			existing: dataset.Record{"a": "José Aldo Júnior"},
			updated:  dataset.Record{"a": "Jiří Procházka"},
			opts:     []differ.Option{differ.WithMaxValueLength(7)},
			want:     []differ.FieldChange{{Path: "a", OldValue: "José...", NewValue: "Jiří...", Type: differ.ChangeTypeUpdate}},
		},
		{
			name:     "short limit on multibyte value",
			existing: dataset.Record{"a": "ÉÉÉÉ"},
			updated:  dataset.Record{"a": "ÜÜÜÜ"},
			opts:     []differ.Option{differ.WithMaxValueLength(2)},
			want:     []differ.FieldChange{{Path: "a", OldValue: "ÉÉ", NewValue: "ÜÜ", Type: differ.ChangeTypeUpdate}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := differ.New(tt.opts...).Record("k", tt.existing, tt.updated)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Changes)
		})
	}
}

func TestPrint(t *testing.T) {
	schema := dataset.SchemaFor(dataset.Ground)
	existing := []dataset.Record{{"Player": "A", "Date": "2023-01-01", "Opponent": "X", "TD": "1"}}
	updated := []dataset.Record{
		{"Player": "A", "Date": "2023-01-01", "Opponent": "X", "TD": "2"},
		{"Player": "B", "Date": "2023-02-02", "Opponent": "Y", "TD": "0"},
	}

	var buf bytes.Buffer
	differ.New().Records(schema, existing, updated).Print(&buf, schema)

	out := buf.String()
	assert.Contains(t, out, "Added Records (1)")
	assert.Contains(t, out, "B / 2023-02-02 / Y")
	assert.Contains(t, out, "- TD: 1 → 2")
}
