package livingset

import (
	"context"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
)

// Diff compares the living dataset of dt with its latest snapshot without
// merging. Removed records are the ones a merge would retain as purged.
func (m *merger) Diff(ctx context.Context, dt dataset.DataType, opts ...differ.Option) (*differ.Changeset, error) {
	latest, err := m.LoadLatest(ctx, dt)
	if err != nil {
		return nil, err
	}
	living, err := m.LoadLiving(ctx, dt)
	if err != nil {
		return nil, err
	}

	var existing []dataset.Record
	if living != nil {
		existing = living.Records
	}
	return differ.New(opts...).Records(dt.Schema(), existing, latest.Records), nil
}
