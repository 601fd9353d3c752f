package livingset

import (
	"context"
	"path/filepath"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
)

// FoldedFile is a candidate whose extra records were added to a master.
type FoldedFile struct {
	Path  string `json:"path" yaml:"path"`
	Added int    `json:"added" yaml:"added"`
}

// MasterResult describes a master dataset built by Master.
type MasterResult struct {
	DataType dataset.DataType `json:"data_type" yaml:"data_type"`
	// Base is the recommended file the master starts from
	Base    string        `json:"base" yaml:"base"`
	Folded  []FoldedFile  `json:"folded,omitempty" yaml:"folded,omitempty"`
	Skipped []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Records int           `json:"records" yaml:"records"`
	Output  string        `json:"output" yaml:"output"`
	Backup  backup.Handle `json:"backup" yaml:"backup"`
}

// Master ranks the candidate files of dt like Compare, starts from the
// recommended one and folds in every record of the other files whose key it
// lacks, best file first. The result is written atomically to out, or to the
// living file when out is empty; the living file is backed up before it is
// replaced.
func (m *merger) Master(ctx context.Context, dt dataset.DataType, paths []string, out string) (*MasterResult, error) {
	layoutPaths, err := m.layout.Paths(dt)
	if err != nil {
		return nil, err
	}
	if out == "" {
		out = layoutPaths.Living
	}
	if out, err = filepath.Abs(out); err != nil {
		return nil, errors.WrapIO("resolve", out, err)
	}

	ranking, err := m.Compare(ctx, dt, paths)
	if err != nil {
		return nil, err
	}
	if ranking.Recommended == "" {
		return nil, errors.NewValidationError("paths", paths, "no candidate file could be scored")
	}
	logger := logging.FromContext(logging.WithDataType(ctx, dt.String()))
	result := &MasterResult{DataType: dt, Base: ranking.Recommended, Skipped: ranking.Skipped, Output: out}

	master, err := dataset.ReadFile(ranking.Recommended, dt)
	if err != nil {
		return nil, err
	}
	for _, f := range ranking.Files[1:] {
		other, err := dataset.ReadFile(f.Path, dt)
		if err != nil {
			return nil, err
		}
		// the master plays the snapshot; the other file's extra keys are retained
		merged, err := m.Reconcile(ctx, other, master)
		if err != nil {
			return nil, err
		}
		master = merged.Dataset
		result.Folded = append(result.Folded, FoldedFile{Path: f.Path, Added: merged.Report.PurgedRetained})
		logger.Debug().
			Str("path", f.Path).
			Int("added", merged.Report.PurgedRetained).
			Msg("Folded candidate into master")
	}
	result.Records = master.Len()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out == layoutPaths.Living {
		if result.Backup, err = m.Backup(ctx, dt, m.config.now()); err != nil {
			return nil, err
		}
	}
	if err := m.config.persister.Save(out, master); err != nil {
		return nil, errors.WrapPersist(dt.String(), "master", out, err)
	}

	logger.Info().
		Str("base", result.Base).
		Int("folded", len(result.Folded)).
		Int("records", result.Records).
		Str("output", out).
		Msg("Created master dataset")
	return result, nil
}
