// Package constants provides shared constants used throughout the livingset codebase.
// This includes file permissions, naming conventions, date layouts and limits
// that must stay consistent between the merger, the backups and the CLI.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// File naming conventions for the three file roles of a data type
const (
	// CSVExtension is the extension of every dataset file
	CSVExtension = ".csv"

	// LivingSuffix marks the cumulative dataset: <stem>_living.csv
	LivingSuffix = "_living"

	// LatestSuffix marks the fresh snapshot: <stem>_latest.csv
	LatestSuffix = "_latest"

	// QuarantineSuffix marks rejected rows: <stem>_quarantine_YYYYMMDD.csv
	QuarantineSuffix = "_quarantine"

	// StagingPattern is the os.CreateTemp pattern used for atomic writes
	StagingPattern = ".livingset-*.tmp"

	// MergeLogPrefix names the dated merge log: merge_log_YYYYMMDD.log
	MergeLogPrefix = "merge_log_"

	// MergeLogExtension is the extension of the merge log
	MergeLogExtension = ".log"
)

// Date layouts
const (
	// BackupDateLayout is the day-granularity stamp embedded in backup file names
	BackupDateLayout = "20060102"

	// KeyDateLayout is the canonical rendering of date key columns
	KeyDateLayout = "2006-01-02"

	// TimeFormatHuman is used for timestamps in CLI summaries
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)

// Defaults for configuration values
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".livingset"

	// EnvPrefix prefixes every environment variable read by viper
	EnvPrefix = "LIVINGSET"

	// StateDirName holds local state (history ledger) under the data directory
	StateDirName = ".livingset"

	// HistoryFileName is the SQLite history ledger file
	HistoryFileName = "history.db"

	// DefaultSimilarityThreshold flags distinct identities this similar (Jaro-Winkler)
	DefaultSimilarityThreshold = 0.97

	// MaxSimilarityIdentities bounds the quadratic near-duplicate check
	MaxSimilarityIdentities = 5000

	// PurgedSampleSize is how many purged identities a report names
	PurgedSampleSize = 5

	// DefaultHistoryLimit is the default number of rows `history` prints
	DefaultHistoryLimit = 20
)

// Timeouts
const (
	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)
