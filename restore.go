package livingset

import (
	"context"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/persist"
)

// Restore copies the backup of dt taken on date (YYYYMMDD) over the living
// file and returns the backup's path. The current living file is backed up
// for today first, unless today's backup already exists.
func (m *merger) Restore(ctx context.Context, dt dataset.DataType, date string) (string, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return "", err
	}
	logger := logging.FromContext(logging.WithDataType(ctx, dt.String()))

	source, err := backup.Find(paths.Living, paths.BackupDir, date)
	if err != nil {
		return "", err
	}

	safety, err := m.Backup(ctx, dt, m.config.now())
	if err != nil {
		return "", err
	}
	if safety.Created {
		logger.Info().Str("backup", safety.Path).Msg("Backed up current living dataset before restore")
	}

	if err := persist.CopyFileAtomic(source.Path, paths.Living); err != nil {
		return "", errors.WrapPersist(dt.String(), "restore", paths.Living, err)
	}
	logger.Info().
		Str("from", source.Path).
		Str("living", paths.Living).
		Msg("Restored living dataset")
	return source.Path, nil
}
