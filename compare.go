package livingset

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/logging"
)

// FileScore describes how complete one candidate file is.
type FileScore struct {
	Path          string    `json:"path" yaml:"path"`
	Identities    int       `json:"identities" yaml:"identities"`
	Columns       int       `json:"columns" yaml:"columns"`
	Records       int       `json:"records" yaml:"records"`
	Rejected      int       `json:"rejected" yaml:"rejected"`
	Missing       int       `json:"missing" yaml:"missing"`
	MissingSample []string  `json:"missing_sample,omitempty" yaml:"missing_sample,omitempty"`
	Score         int64     `json:"score" yaml:"score"`
	ModTime       time.Time `json:"mod_time" yaml:"mod_time"`
}

// SkippedFile is a candidate that could not be scored.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// CompareResult ranks candidate files of one data type.
type CompareResult struct {
	DataType dataset.DataType `json:"data_type" yaml:"data_type"`
	// Identities is the number of distinct identities across all files
	Identities  int           `json:"identities" yaml:"identities"`
	Files       []FileScore   `json:"files" yaml:"files"`
	Skipped     []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Recommended string        `json:"recommended,omitempty" yaml:"recommended,omitempty"`
}

// Best returns the recommended file's score.
func (r *CompareResult) Best() (FileScore, bool) {
	for _, f := range r.Files {
		if f.Path == r.Recommended {
			return f, true
		}
	}
	return FileScore{}, false
}

// Compare loads each candidate file of dt and scores it by identities ×
// columns × records. Unreadable files and files lacking the identity column
// are skipped. The highest score is recommended as master; ties go to the
// newer file. Files are returned best first.
func (m *merger) Compare(ctx context.Context, dt dataset.DataType, paths []string) (*CompareResult, error) {
	if !dt.Valid() {
		return nil, errors.NewConfigError("types", "unknown data type "+dt.String(), nil)
	}
	if len(paths) == 0 {
		return nil, errors.NewValidationError("paths", paths, "at least one file is required")
	}
	logger := logging.FromContext(logging.WithDataType(ctx, dt.String()))
	schema := dt.Schema()
	identityColumn := schema.IdentityColumn()

	result := &CompareResult{DataType: dt}
	all := make(map[string]string)
	perFile := make([][]string, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds, err := dataset.ReadFile(path, dt)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("File unreadable, skipping")
			result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			continue
		}
		if identityColumn != "" && !ds.HasColumn(identityColumn) {
			logger.Warn().Str("path", path).Str("column", identityColumn).Msg("File lacks identity column, skipping")
			result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: "missing column " + identityColumn})
			continue
		}

		ids, display := ds.Identities(schema)
		for _, id := range ids {
			if _, ok := all[id]; !ok {
				all[id] = display[id]
			}
		}
		perFile = append(perFile, ids)

		score := FileScore{
			Path:       path,
			Identities: len(ids),
			Columns:    len(ds.Columns),
			Records:    ds.Len(),
			Rejected:   len(ds.Rejected),
		}
		score.Score = int64(score.Identities) * int64(score.Columns) * int64(score.Records)
		if info, err := os.Stat(path); err == nil {
			score.ModTime = info.ModTime()
		}
		result.Files = append(result.Files, score)
	}
	result.Identities = len(all)

	for i, ids := range perFile {
		have := make(map[string]bool, len(ids))
		for _, id := range ids {
			have[id] = true
		}
		missing := make([]string, 0)
		for id, name := range all {
			if !have[id] {
				missing = append(missing, name)
			}
		}
		sort.Strings(missing)
		result.Files[i].Missing = len(missing)
		result.Files[i].MissingSample = missing[:min(len(missing), constants.PurgedSampleSize)]
	}

	sort.SliceStable(result.Files, func(i, j int) bool {
		a, b := result.Files[i], result.Files[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ModTime.After(b.ModTime)
	})
	if len(result.Files) > 0 {
		result.Recommended = result.Files[0].Path
	}
	return result, nil
}
