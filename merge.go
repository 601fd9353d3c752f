package livingset

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
	"github.com/agentstation/livingset/pkg/merge"
	"github.com/agentstation/livingset/pkg/validation"
)

// MergeOne merges the latest snapshot of dt into its living file.
//
// The steps run in a fixed order: prepare (optional), load latest, load
// living, validate both, back up, reconcile, persist quarantine and living
// files, record history. A failure at any step before persistence leaves
// every file on disk untouched.
func (m *merger) MergeOne(ctx context.Context, dt dataset.DataType, opts ...merge.Option) (outcome *merge.Outcome) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := merge.Defaults().Apply(opts...)
	start := m.config.now()
	outcome = &merge.Outcome{DataType: dt, DryRun: options.DryRun, Forced: options.Force, StartedAt: start}

	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}
	ctx = logging.WithDataType(ctx, dt.String())
	logger := logging.FromContext(ctx)

	defer func() {
		outcome.Duration = m.config.now().Sub(start)
		m.finish(ctx, outcome)
	}()

	// Step 1: resolve paths
	if !dt.Valid() {
		return outcome.Fail(errors.NewConfigError("types", fmt.Sprintf("unknown data type %q", dt), nil))
	}
	paths, err := m.layout.Paths(dt)
	if err != nil {
		return outcome.Fail(err)
	}

	// Step 2: copy raw scraper output into place
	if options.Prepare {
		prepared, err := m.Prepare(ctx, dt)
		if err != nil {
			return outcome.Fail(err)
		}
		outcome.Prepared = prepared
	}

	// Step 3: load the latest snapshot; absent means nothing to do
	latest, err := m.LoadLatest(ctx, dt)
	if errors.IsMissingInput(err) {
		logger.Warn().Str("path", paths.Latest).Msg("Latest snapshot not found, skipping")
		return outcome.Skip(err.Error())
	}
	if err != nil {
		return outcome.Fail(err)
	}

	// Step 4: load the living dataset; absent means this run seeds it
	living, err := m.LoadLiving(ctx, dt)
	if err != nil {
		return outcome.Fail(err)
	}
	outcome.Seeded = living == nil
	if outcome.Seeded {
		logger.Info().Str("path", paths.Living).Msg("Seeding living dataset from latest snapshot")
	}

	// Step 5: validate both inputs
	outcome.LatestValidation = m.validator.ForRole(validation.RoleLatest).Validate(latest, dt)
	if living != nil {
		outcome.LivingValidation = m.validator.ForRole(validation.RoleLiving).Validate(living, dt)
	}
	for _, result := range []*validation.Result{outcome.LatestValidation, outcome.LivingValidation} {
		if result == nil {
			continue
		}
		for _, w := range result.Warnings {
			logger.Warn().Str("role", result.Role).Str("check", w.Check).Msg(w.Message)
		}
		for _, e := range result.Errors {
			logger.Error().Str("role", result.Role).Str("check", e.Check).Bool("forced", options.Force).Msg(e.Message)
		}
		if !result.IsValid() && !options.Force {
			return outcome.Fail(result.Err())
		}
	}

	// Step 6: rollback point
	if options.SkipBackup {
		logger.Warn().Msg("Backup skipped, no rollback point for this merge")
	} else if living != nil {
		if outcome.Backup, err = m.Backup(ctx, dt, start); err != nil {
			return outcome.Fail(err)
		}
	}

	// Step 7: reconcile
	result, err := m.Reconcile(ctx, living, latest)
	if err != nil {
		return outcome.Fail(err)
	}
	outcome.Report = &result.Report
	if options.Verbose {
		for _, u := range result.Updates {
			logger.Info().Str("key", u.Key.String()).Int("fields", len(u.Changes)).Msg("Record updated")
		}
		for _, c := range result.Report.ColumnsAdded {
			logger.Info().Str("column", c).Msg("Column added")
		}
	}

	// Step 8: persist, unless dry run
	if options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run, living dataset not written")
		outcome.Status = merge.StatusSuccess
		return outcome
	}
	if err := ctx.Err(); err != nil {
		return outcome.Fail(err)
	}
	if err := m.quarantine(outcome, paths, living, latest); err != nil {
		return outcome.Fail(err)
	}
	if err := m.config.persister.Save(paths.Living, result.Dataset); err != nil {
		return outcome.Fail(errors.WrapPersist(dt.String(), "write", paths.Living, err))
	}
	m.triggerUpdates(dt, result.Updates)

	outcome.Status = merge.StatusSuccess
	return outcome
}

// quarantine writes rows rejected while loading; they only exist on a forced merge.
func (m *merger) quarantine(outcome *merge.Outcome, paths Paths, living, latest *dataset.Dataset) error {
	for _, in := range []struct {
		role string
		ds   *dataset.Dataset
	}{{validation.RoleLatest, latest}, {validation.RoleLiving, living}} {
		if in.ds == nil || len(in.ds.Rejected) == 0 {
			continue
		}
		path := paths.QuarantinePath(in.role, outcome.StartedAt)
		if err := m.config.persister.SaveRejected(path, in.ds.Columns, in.ds.Rejected); err != nil {
			return errors.WrapPersist(outcome.DataType.String(), "quarantine", path, err)
		}
		outcome.Quarantine = append(outcome.Quarantine, path)
	}
	return nil
}

// finish logs the outcome, records it in the ledger and fires hooks.
func (m *merger) finish(ctx context.Context, outcome *merge.Outcome) {
	logger := logging.FromContext(ctx)

	event := logger.Info()
	if outcome.Status == merge.StatusFailed {
		event = logger.Error().Err(outcome.Err)
	}
	event = event.Str("status", string(outcome.Status)).
		Bool("dry_run", outcome.DryRun).
		Bool("seeded", outcome.Seeded).
		Dur("duration", outcome.Duration)
	if r := outcome.Report; r != nil {
		event = event.
			Int("prior", r.Prior).
			Int("latest", r.Latest).
			Int("purged_retained", r.PurgedRetained).
			Int("purged_entities", r.PurgedEntities).
			Strs("purged_sample", r.PurgedSample).
			Int("newly_added", r.NewlyAdded).
			Int("updated", r.Updated).
			Int("unchanged", r.Unchanged).
			Int("duplicates_dropped", r.DuplicatesDropped).
			Int("total", r.Total)
	}
	if outcome.Backup.Exists() {
		event = event.Str("backup", outcome.Backup.Path)
	}
	event.Msg("Merge finished")

	if m.config.history != nil {
		if err := m.config.history.Record(ctx, logging.RunID(ctx), outcome.Entry()); err != nil {
			logger.Warn().Err(err).Msg("Could not record merge history")
		}
	}

	m.triggerMerged(outcome)
}

// MergeAll merges each requested data type independently. Unknown or
// duplicate types, or invalid options, fail the whole call before any work.
func (m *merger) MergeAll(ctx context.Context, types []dataset.DataType, opts ...merge.Option) (*merge.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := merge.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	types, err := m.resolveTypes(types)
	if err != nil {
		return nil, err
	}

	summary := &merge.Summary{
		RunID:     uuid.NewString(),
		StartedAt: m.config.now(),
		DryRun:    options.DryRun,
		Outcomes:  make([]*merge.Outcome, len(types)),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Int("types", len(types)).
		Int("parallel", options.Workers()).
		Bool("dry_run", options.DryRun).
		Msg("Starting merge")

	var mu sync.Mutex
	run := func(i int, dt dataset.DataType) {
		var outcome *merge.Outcome
		defer func() {
			// a panic fails only its own data type
			if p := recover(); p != nil {
				logger.Error().Str("data_type", dt.String()).Interface("panic", p).Msg("Merge panicked")
				outcome = (&merge.Outcome{DataType: dt, DryRun: options.DryRun, StartedAt: m.config.now()}).
					Fail(fmt.Errorf("merge of %s panicked: %v", dt, p))
			}
			mu.Lock()
			summary.Outcomes[i] = outcome
			mu.Unlock()
		}()

		if err := ctx.Err(); err != nil {
			outcome = (&merge.Outcome{DataType: dt, DryRun: options.DryRun, StartedAt: m.config.now()}).Fail(err)
			return
		}
		outcome = m.MergeOne(ctx, dt, opts...)
	}

	if options.Workers() == 1 {
		for i, dt := range types {
			run(i, dt)
		}
	} else {
		p := pool.New().WithMaxGoroutines(options.Workers())
		for i, dt := range types {
			p.Go(func() { run(i, dt) })
		}
		p.Wait()
	}

	summary.Duration = m.config.now().Sub(summary.StartedAt)
	logger.Info().
		Int("succeeded", summary.Succeeded()).
		Int("skipped", summary.Skipped()).
		Int("failed", summary.Failed()).
		Dur("duration", summary.Duration).
		Msg("Merge completed")

	return summary, nil
}

// resolveTypes expands an empty request to every configured type and rejects
// unknown or repeated ones.
func (m *merger) resolveTypes(types []dataset.DataType) ([]dataset.DataType, error) {
	if len(types) == 0 {
		return m.layout.Types(), nil
	}
	seen := make(map[dataset.DataType]bool, len(types))
	for _, dt := range types {
		if !dt.Valid() {
			return nil, errors.NewConfigError("types", fmt.Sprintf("unknown data type %q", dt), nil)
		}
		if seen[dt] {
			return nil, errors.NewConfigError("types", fmt.Sprintf("data type %q requested more than once", dt), nil)
		}
		if _, err := m.layout.Paths(dt); err != nil {
			return nil, err
		}
		seen[dt] = true
	}
	return types, nil
}
