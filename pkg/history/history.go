// Package history keeps a ledger of merge outcomes in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/errors"
)

//go:embed schema.sql
var Schema string

// Entry is one data type's outcome within a merge run.
type Entry struct {
	ID                int64         `json:"id" yaml:"id"`
	RunID             string        `json:"run_id" yaml:"run_id"`
	DataType          string        `json:"data_type" yaml:"data_type"`
	Status            string        `json:"status" yaml:"status"`
	DryRun            bool          `json:"dry_run" yaml:"dry_run"`
	Seeded            bool          `json:"seeded" yaml:"seeded"`
	Prior             int           `json:"prior" yaml:"prior"`
	Latest            int           `json:"latest" yaml:"latest"`
	PurgedRetained    int           `json:"purged_retained" yaml:"purged_retained"`
	PurgedEntities    int           `json:"purged_entities" yaml:"purged_entities"`
	NewlyAdded        int           `json:"newly_added" yaml:"newly_added"`
	Updated           int           `json:"updated" yaml:"updated"`
	Unchanged         int           `json:"unchanged" yaml:"unchanged"`
	DuplicatesDropped int           `json:"duplicates_dropped" yaml:"duplicates_dropped"`
	Total             int           `json:"total" yaml:"total"`
	BackupPath        string        `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Error             string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt         time.Time     `json:"started_at" yaml:"started_at"`
	Duration          time.Duration `json:"duration" yaml:"duration"`
}

// Recorder stores merge outcomes.
type Recorder interface {
	Record(ctx context.Context, runID string, e Entry) error
}

// Ledger records outcomes and lists them back.
type Ledger interface {
	Recorder
	List(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

var _ Ledger = (*Store)(nil)

// Query filters List. Zero fields do not filter; Limit <= 0 means the default.
type Query struct {
	DataType string
	RunID    string
	Limit    int
}

// Store is a SQLite-backed ledger.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the ledger location under a data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, constants.StateDirName, constants.HistoryFileName)
}

// Open opens (creating if needed) the ledger at path. ":memory:" opens a
// private in-memory ledger.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Record implements Recorder.
func (s *Store) Record(ctx context.Context, runID string, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO merge_runs (
    run_id, data_type, status, dry_run, seeded,
    prior, latest, purged_retained, purged_entities, newly_added,
    updated, unchanged, duplicates_dropped, total,
    backup_path, error, started_at, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, e.DataType, e.Status, e.DryRun, e.Seeded,
		e.Prior, e.Latest, e.PurgedRetained, e.PurgedEntities, e.NewlyAdded,
		e.Updated, e.Unchanged, e.DuplicatesDropped, e.Total,
		e.BackupPath, e.Error, e.StartedAt.UTC().Format(time.RFC3339Nano), e.Duration.Milliseconds(),
	)
	if err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}

// List returns matching entries, newest first.
func (s *Store) List(ctx context.Context, q Query) ([]Entry, error) {
	var where []string
	var args []any
	if q.DataType != "" {
		where = append(where, "data_type = ?")
		args = append(args, q.DataType)
	}
	if q.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, q.RunID)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	query := `SELECT id, run_id, data_type, status, dry_run, seeded,
    prior, latest, purged_retained, purged_entities, newly_added,
    updated, unchanged, duplicates_dropped, total,
    backup_path, error, started_at, duration_ms
FROM merge_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startedAt string
		var durationMs int64
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.DataType, &e.Status, &e.DryRun, &e.Seeded,
			&e.Prior, &e.Latest, &e.PurgedRetained, &e.PurgedEntities, &e.NewlyAdded,
			&e.Updated, &e.Unchanged, &e.DuplicatesDropped, &e.Total,
			&e.BackupPath, &e.Error, &startedAt, &durationMs,
		); err != nil {
			return nil, errors.WrapIO("read", s.path, err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			e.StartedAt = t
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}
	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
