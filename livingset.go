// Package livingset maintains living datasets: cumulative CSV files that
// absorb each new scraper snapshot without ever losing a record the snapshot
// no longer carries.
//
// A Merger reconciles the latest snapshot of each data type into its living
// file. Keys present in the snapshot take the snapshot's values, keys only the
// living file has are retained, and new keys are appended. Every merge is
// validated first, backed up once per day, written atomically and recorded in
// an optional history ledger.
package livingset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/agentstation/livingset/pkg/backup"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/merge"
	"github.com/agentstation/livingset/pkg/reconciler"
	"github.com/agentstation/livingset/pkg/validation"
)

// Merger merges latest snapshots into living datasets.
type Merger interface {
	// Layout returns the resolved file locations
	Layout() Layout

	// LoadLiving reads the living dataset of dt; an absent file is (nil, nil)
	LoadLiving(ctx context.Context, dt dataset.DataType) (*dataset.Dataset, error)

	// LoadLatest reads the latest snapshot of dt; an absent file is a MissingInputError
	LoadLatest(ctx context.Context, dt dataset.DataType) (*dataset.Dataset, error)

	// Validate checks ds as a dataset of dt
	Validate(ds *dataset.Dataset, dt dataset.DataType) *validation.Result

	// Backup copies the living file of dt to its dated backup, once per day
	Backup(ctx context.Context, dt dataset.DataType, asOf time.Time) (backup.Handle, error)

	// Backups lists the dated backups of dt, oldest first
	Backups(ctx context.Context, dt dataset.DataType) ([]backup.Handle, error)

	// Reconcile merges latest into living without touching disk
	Reconcile(ctx context.Context, living, latest *dataset.Dataset) (*reconciler.Result, error)

	// MergeOne runs the full merge of a single data type
	MergeOne(ctx context.Context, dt dataset.DataType, opts ...merge.Option) *merge.Outcome

	// MergeAll merges each requested data type independently; empty means all
	MergeAll(ctx context.Context, types []dataset.DataType, opts ...merge.Option) (*merge.Summary, error)

	// Prepare copies the raw scraper output of dt over its latest file
	Prepare(ctx context.Context, dt dataset.DataType) (bool, error)

	// Compare scores candidate files of dt and recommends a master
	Compare(ctx context.Context, dt dataset.DataType, paths []string) (*CompareResult, error)

	// Diff compares the living dataset of dt with its latest snapshot without merging
	Diff(ctx context.Context, dt dataset.DataType, opts ...differ.Option) (*differ.Changeset, error)

	// Master builds a master dataset of dt from candidate files and writes it to out
	Master(ctx context.Context, dt dataset.DataType, paths []string, out string) (*MasterResult, error)

	// Restore copies the backup of dt taken on date (YYYYMMDD) over the living file
	Restore(ctx context.Context, dt dataset.DataType, date string) (string, error)

	// OnMerged registers a callback for finished merges
	OnMerged(MergedHook)

	// OnRecordUpdated registers a callback for records changed by a persisted merge
	OnRecordUpdated(RecordUpdatedHook)
}

// merger is the internal implementation of the Merger interface
type merger struct {
	config    *config
	layout    Layout
	validator *validation.Validator
	*hooks
}

// New creates a new Merger with the given options.
func New(opts ...Option) (Merger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	layout := cfg.layout
	if layout == nil {
		layout = DefaultLayout(cfg.dataDir)
	}
	layout, err := layout.Abs()
	if err != nil {
		return nil, err
	}

	if cfg.reconciler == nil {
		ropts := append([]reconciler.Option{reconciler.WithClock(cfg.now)}, cfg.reconcileOpts...)
		if cfg.reconciler, err = reconciler.New(ropts...); err != nil {
			return nil, fmt.Errorf("creating reconciler: %w", err)
		}
	}

	return &merger{
		config:    cfg,
		layout:    layout,
		validator: validation.New(cfg.validationOpts...),
		hooks:     newHooks(),
	}, nil
}

// Layout implements Merger.
func (m *merger) Layout() Layout {
	out := make(Layout, len(m.layout))
	for dt, p := range m.layout {
		out[dt] = p
	}
	return out
}

// LoadLiving implements Merger.
func (m *merger) LoadLiving(ctx context.Context, dt dataset.DataType) (*dataset.Dataset, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(paths.Living); os.IsNotExist(err) {
		logging.FromContext(ctx).Debug().
			Str("path", paths.Living).
			Msg("No living dataset, starting empty")
		return nil, nil
	}
	return dataset.ReadFile(paths.Living, dt)
}

// LoadLatest implements Merger.
func (m *merger) LoadLatest(_ context.Context, dt dataset.DataType) (*dataset.Dataset, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(paths.Latest); os.IsNotExist(err) {
		return nil, &errors.MissingInputError{DataType: dt.String(), Path: paths.Latest}
	}
	return dataset.ReadFile(paths.Latest, dt)
}

// Validate implements Merger.
func (m *merger) Validate(ds *dataset.Dataset, dt dataset.DataType) *validation.Result {
	return m.validator.Validate(ds, dt)
}

// Backup implements Merger.
func (m *merger) Backup(ctx context.Context, dt dataset.DataType, asOf time.Time) (backup.Handle, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return backup.Handle{}, err
	}
	h, err := backup.Create(paths.Living, paths.BackupDir, asOf)
	if err != nil {
		return backup.Handle{}, errors.WrapPersist(dt.String(), "backup", backup.Path(paths.Living, paths.BackupDir, asOf), err)
	}

	logger := logging.FromContext(ctx)
	switch {
	case h.Created:
		logger.Info().Str("backup", h.Path).Int64("bytes", h.Size).Msg("Backed up living dataset")
	case h.Exists():
		logger.Debug().Str("backup", h.Path).Msg("Backup for today already exists")
	default:
		logger.Debug().Msg("No living dataset to back up")
	}
	return h, nil
}

// Backups implements Merger.
func (m *merger) Backups(_ context.Context, dt dataset.DataType) ([]backup.Handle, error) {
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return nil, err
	}
	return backup.List(paths.Living, paths.BackupDir)
}

// Reconcile implements Merger.
func (m *merger) Reconcile(ctx context.Context, living, latest *dataset.Dataset) (*reconciler.Result, error) {
	return m.config.reconciler.Reconcile(ctx, living, latest)
}
