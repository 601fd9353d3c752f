// Package backup keeps dated, write-once copies of living files.
//
// A backup of <dir>/<stem>_living.csv taken on 2024-03-09 is
// <backupDir>/<stem>_living_20240309.csv. At most one backup exists per
// living file per calendar day; later calls that day are no-ops.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/persist"
)

// Handle describes a backup file.
type Handle struct {
	Path    string    `json:"path,omitempty" yaml:"path,omitempty"`
	Date    string    `json:"date,omitempty" yaml:"date,omitempty"`
	Created bool      `json:"created" yaml:"created"`
	Size    int64     `json:"size,omitempty" yaml:"size,omitempty"`
	ModTime time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

// Exists reports whether the handle names a backup file.
func (h Handle) Exists() bool {
	return h.Path != ""
}

// Path returns the backup path of livingPath for the day of asOf.
// An empty backupDir means the living file's directory.
func Path(livingPath, backupDir string, asOf time.Time) string {
	return pathForDate(livingPath, backupDir, asOf.Format(constants.BackupDateLayout))
}

func pathForDate(livingPath, backupDir, date string) string {
	if backupDir == "" {
		backupDir = filepath.Dir(livingPath)
	}
	base := strings.TrimSuffix(filepath.Base(livingPath), filepath.Ext(livingPath))
	return filepath.Join(backupDir, base+"_"+date+constants.CSVExtension)
}

// Create copies livingPath to its backup for asOf's day.
// It is a no-op, with Created false, when that backup already exists or when
// there is no living file to back up.
func Create(livingPath, backupDir string, asOf time.Time) (Handle, error) {
	date := asOf.Format(constants.BackupDateLayout)
	path := pathForDate(livingPath, backupDir, date)

	if info, err := os.Stat(path); err == nil {
		return Handle{Path: path, Date: date, Size: info.Size(), ModTime: info.ModTime()}, nil
	} else if !os.IsNotExist(err) {
		return Handle{}, errors.WrapIO("stat", path, err)
	}

	if _, err := os.Stat(livingPath); os.IsNotExist(err) {
		return Handle{}, nil
	} else if err != nil {
		return Handle{}, errors.WrapIO("stat", livingPath, err)
	}

	if err := persist.CopyFileAtomic(livingPath, path); err != nil {
		return Handle{}, err
	}

	h := Handle{Path: path, Date: date, Created: true}
	if info, err := os.Stat(path); err == nil {
		h.Size = info.Size()
		h.ModTime = info.ModTime()
	}
	return h, nil
}

// List returns the backups of livingPath, oldest first.
func List(livingPath, backupDir string) ([]Handle, error) {
	pattern := pathForDate(livingPath, backupDir, "????????")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WrapIO("glob", pattern, err)
	}

	prefix := strings.TrimSuffix(filepath.Base(pattern), "????????"+constants.CSVExtension)
	handles := make([]Handle, 0, len(matches))
	for _, m := range matches {
		date := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), prefix), constants.CSVExtension)
		if _, err := time.Parse(constants.BackupDateLayout, date); err != nil {
			continue
		}
		h := Handle{Path: m, Date: date}
		if info, err := os.Stat(m); err == nil {
			h.Size = info.Size()
			h.ModTime = info.ModTime()
		}
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Date < handles[j].Date })
	return handles, nil
}

// Find returns the backup of livingPath taken on date (YYYYMMDD).
func Find(livingPath, backupDir, date string) (Handle, error) {
	if _, err := time.Parse(constants.BackupDateLayout, date); err != nil {
		return Handle{}, errors.NewValidationError("date", date, fmt.Sprintf("must be YYYYMMDD: %v", err))
	}
	path := pathForDate(livingPath, backupDir, date)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Handle{}, errors.NewNotFoundError("backup", filepath.Base(path))
	}
	if err != nil {
		return Handle{}, errors.WrapIO("stat", path, err)
	}
	return Handle{Path: path, Date: date, Size: info.Size(), ModTime: info.ModTime()}, nil
}
