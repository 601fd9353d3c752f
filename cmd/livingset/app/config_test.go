package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/reconciler"
)

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.DataDir != "." {
		t.Errorf("DataDir = %q, want .", config.DataDir)
	}
	if !config.HistoryEnabled {
		t.Error("HistoryEnabled should default to true")
	}
	if config.SimilarityThreshold != constants.DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold = %g, want %g", config.SimilarityThreshold, constants.DefaultSimilarityThreshold)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.Strategy != "latest-wins" {
		t.Errorf("Strategy = %q, want latest-wins", config.Strategy)
	}
	if config.PurgedSampleSize != constants.PurgedSampleSize {
		t.Errorf("PurgedSampleSize = %d, want %d", config.PurgedSampleSize, constants.PurgedSampleSize)
	}
}

// TestConfig_EnvironmentVariables verifies LIVINGSET_* variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("LIVINGSET_DATA_DIR", "/srv/ufc")
	t.Setenv("LIVINGSET_PARALLEL", "3")
	t.Setenv("LIVINGSET_FORMAT", "json")
	t.Setenv("LIVINGSET_VERBOSE", "true")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.DataDir != "/srv/ufc" {
		t.Errorf("DataDir = %q, want /srv/ufc", config.DataDir)
	}
	if config.Parallel != 3 {
		t.Errorf("Parallel = %d, want 3", config.Parallel)
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, want json", config.Format)
	}
	if !config.Verbose {
		t.Error("LIVINGSET_VERBOSE not loaded")
	}
}

// TestConfig_File verifies the config file, including dataset overrides.
func TestConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "livingset.yaml")
	content := `data_dir: ` + dir + `
parallel: 2
history:
  enabled: false
merge:
  strategy: fill-blanks
  purged_sample_size: 3
  ignore_columns: [Strikes]
validation:
  similarity_threshold: 0.9
datasets:
  striking:
    stem: strikes
  fighter_profiles:
    raw: scraped/profiles.csv
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.HistoryEnabled {
		t.Error("history.enabled: false not applied")
	}
	if config.SimilarityThreshold != 0.9 {
		t.Errorf("SimilarityThreshold = %g, want 0.9", config.SimilarityThreshold)
	}
	if config.Strategy != "fill-blanks" || config.PurgedSampleSize != 3 {
		t.Errorf("merge = %q/%d, want fill-blanks/3", config.Strategy, config.PurgedSampleSize)
	}
	if len(config.IgnoreColumns) != 1 || config.IgnoreColumns[0] != "Strikes" {
		t.Errorf("IgnoreColumns = %v, want [Strikes]", config.IgnoreColumns)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}

	layout := config.Layout()
	striking, err := layout.Paths(dataset.Striking)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "strikes_living.csv"); striking.Living != want {
		t.Errorf("striking living = %q, want %q", striking.Living, want)
	}
	profile, err := layout.Paths(dataset.Profile)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "scraped", "profiles.csv"); profile.Raw != want {
		t.Errorf("profile raw = %q, want %q", profile.Raw, want)
	}
}

// TestConfig_FileErrors verifies unreadable and invalid config files are fatal.
func TestConfig_FileErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("datasets:\n  kicks:\n    stem: kicks\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for name, path := range map[string]string{
		"missing file": filepath.Join(dir, "absent.yaml"),
		"unknown type": unknown,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(path)
			if !errors.IsConfigError(err) {
				t.Errorf("LoadConfig() error = %v, want configuration error", err)
			}
		})
	}
}

// TestConfig_Validate verifies conflicting settings are rejected.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{DataDir: ".", SimilarityThreshold: 0.97}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "verbose and quiet", mutate: func(c *Config) { c.Verbose, c.Quiet = true, true }, wantErr: true},
		{name: "negative parallel", mutate: func(c *Config) { c.Parallel = -1 }, wantErr: true},
		{name: "threshold above one", mutate: func(c *Config) { c.SimilarityThreshold = 1.5 }, wantErr: true},
		{name: "threshold zero disables", mutate: func(c *Config) { c.SimilarityThreshold = 0 }},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "yaml format", mutate: func(c *Config) { c.Format = "yaml" }},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "fill-blanks strategy", mutate: func(c *Config) { c.Strategy = "fill-blanks" }},
		{name: "unknown strategy", mutate: func(c *Config) { c.Strategy = "oldest-wins" }, wantErr: true},
		{name: "negative sample size", mutate: func(c *Config) { c.PurgedSampleSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsConfigError(err) {
				t.Errorf("Validate() error = %v, want configuration error", err)
			}
		})
	}
}

// TestConfig_ResolvedPaths verifies log and history defaults follow the data directory.
func TestConfig_ResolvedPaths(t *testing.T) {
	c := &Config{DataDir: "/data"}
	if got := c.ResolvedLogDir(); got != "/data" {
		t.Errorf("ResolvedLogDir() = %q, want /data", got)
	}
	if got, want := c.ResolvedHistoryPath(), filepath.Join("/data", ".livingset", "history.db"); got != want {
		t.Errorf("ResolvedHistoryPath() = %q, want %q", got, want)
	}

	c.LogDir, c.HistoryPath = "/logs", "/state/h.db"
	if got := c.ResolvedLogDir(); got != "/logs" {
		t.Errorf("ResolvedLogDir() = %q, want /logs", got)
	}
	if got := c.ResolvedHistoryPath(); got != "/state/h.db" {
		t.Errorf("ResolvedHistoryPath() = %q, want /state/h.db", got)
	}
}

// TestConfig_ReconcilerOptions verifies the merge section reaches the reconciler.
func TestConfig_ReconcilerOptions(t *testing.T) {
	c := &Config{Strategy: "fill-blanks", PurgedSampleSize: 1, IgnoreColumns: []string{"Strikes"}}
	r, err := reconciler.New(c.ReconcilerOptions()...)
	if err != nil {
		t.Fatalf("reconciler.New() failed: %v", err)
	}

	columns := []string{"Player", "Date", "Opponent", "Event", "Result", "Strikes", "Notes"}
	living := dataset.New(dataset.Striking, columns)
	living.Add(dataset.Record{"Player": "Alice", "Date": "2024-01-01", "Opponent": "Bob", "Event": "UFC 1", "Result": "W", "Strikes": "9", "Notes": "close"})
	living.Add(dataset.Record{"Player": "Zed", "Date": "2019-05-05", "Opponent": "Yan", "Event": "UFC 0", "Result": "L"})
	living.Add(dataset.Record{"Player": "Yan", "Date": "2019-05-05", "Opponent": "Zed", "Event": "UFC 0", "Result": "W"})
	latest := dataset.New(dataset.Striking, columns)
	latest.Add(dataset.Record{"Player": "Alice", "Date": "2024-01-01", "Opponent": "Bob", "Event": "UFC 1", "Result": "W", "Strikes": "10", "Notes": ""})

	result, err := r.Reconcile(context.Background(), living, latest)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	if got := result.Dataset.Records[0]["Notes"]; got != "close" {
		t.Errorf("Notes = %q, want the living value kept by fill-blanks", got)
	}
	if result.Report.Updated != 0 || result.Report.Unchanged != 1 {
		t.Errorf("updated/unchanged = %d/%d, want 0/1 with Strikes ignored", result.Report.Updated, result.Report.Unchanged)
	}
	if len(result.Report.PurgedSample) != 1 {
		t.Errorf("PurgedSample = %v, want one name", result.Report.PurgedSample)
	}
}
