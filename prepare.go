package livingset

import (
	"context"
	"os"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/persist"
)

// Prepare copies the raw scraper output of dt over its latest file.
// It reports false, without error, when there is no raw file.
func (m *merger) Prepare(ctx context.Context, dt dataset.DataType) (bool, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(paths.Raw); os.IsNotExist(err) {
		logging.FromContext(ctx).Debug().Str("raw", paths.Raw).Msg("No raw scraper output to prepare")
		return false, nil
	} else if err != nil {
		return false, errors.WrapIO("stat", paths.Raw, err)
	}

	if err := persist.CopyFileAtomic(paths.Raw, paths.Latest); err != nil {
		return false, errors.WrapPersist(dt.String(), "prepare", paths.Latest, err)
	}
	logging.FromContext(ctx).Info().
		Str("raw", paths.Raw).
		Str("latest", paths.Latest).
		Msg("Prepared latest snapshot")
	return true, nil
}
