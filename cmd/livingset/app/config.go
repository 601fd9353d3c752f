package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/differ"
	"github.com/agentstation/livingset/pkg/errors"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/reconciler"
)

// Config holds the application configuration loaded from flags, environment
// variables (LIVINGSET_*), .env files and the .livingset.yaml config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Dataset locations
	DataDir  string
	LogDir   string
	Datasets map[dataset.DataType]livingset.Override

	// History ledger
	HistoryEnabled bool
	HistoryPath    string

	// Merge behavior
	SimilarityThreshold float64
	Parallel            int
	Strategy            string
	PurgedSampleSize    int
	IgnoreColumns       []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
	LogFields string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied afterwards by the root command)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .livingset.yaml in the working or home directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", ".")
	v.SetDefault("log_dir", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("log_fields", "")
	v.SetDefault("format", "")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("validation.similarity_threshold", constants.DefaultSimilarityThreshold)
	v.SetDefault("parallel", 0)
	v.SetDefault("merge.strategy", string(reconciler.StrategyTypeLatestWins))
	v.SetDefault("merge.purged_sample_size", constants.PurgedSampleSize)
	v.SetDefault("merge.ignore_columns", []string{})

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", fmt.Sprintf("cannot read config file: %v", err), err)
		}
	}

	datasets, err := decodeDatasets(v.Get("datasets"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:  v.GetString("data_dir"),
		LogDir:   v.GetString("log_dir"),
		Datasets: datasets,

		HistoryEnabled: v.GetBool("history.enabled"),
		HistoryPath:    v.GetString("history.path"),

		SimilarityThreshold: v.GetFloat64("validation.similarity_threshold"),
		Parallel:            v.GetInt("parallel"),
		Strategy:            v.GetString("merge.strategy"),
		PurgedSampleSize:    v.GetInt("merge.purged_sample_size"),
		IgnoreColumns:       v.GetStringSlice("merge.ignore_columns"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
		LogFields: v.GetString("log_fields"),
	}

	return config, nil
}

// decodeDatasets converts the raw datasets section into per-type overrides.
// Keys may be type IDs or file stems.
func decodeDatasets(raw any) (map[dataset.DataType]livingset.Override, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, errors.NewConfigError("datasets", "cannot encode section", err)
	}
	var byName map[string]livingset.Override
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, errors.NewConfigError("datasets", "must map data types to {stem, living, latest, raw, backup_dir}", err)
	}

	out := make(map[dataset.DataType]livingset.Override, len(byName))
	for name, o := range byName {
		dt, err := dataset.ParseType(name)
		if err != nil {
			return nil, err
		}
		out[dt] = o
	}
	return out, nil
}

// Validate checks the configuration for conflicts.
func (c *Config) Validate() error {
	if c.Verbose && c.Quiet {
		return errors.NewConfigError("flags", "--verbose and --quiet are mutually exclusive", nil)
	}
	if c.Parallel < 0 {
		return errors.NewConfigError("parallel", fmt.Sprintf("must not be negative, got %d", c.Parallel), nil)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return errors.NewConfigError("validation.similarity_threshold", fmt.Sprintf("must be between 0 and 1, got %g", c.SimilarityThreshold), nil)
	}
	if _, ok := reconciler.StrategyByType(reconciler.StrategyType(c.Strategy)); !ok {
		return errors.NewConfigError("merge.strategy", fmt.Sprintf("unknown strategy %q", c.Strategy), nil)
	}
	if c.PurgedSampleSize < 0 {
		return errors.NewConfigError("merge.purged_sample_size", fmt.Sprintf("must not be negative, got %d", c.PurgedSampleSize), nil)
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return errors.NewConfigError("format", err.Error(), err)
	}
	if c.DataDir == "" {
		return errors.NewConfigError("data_dir", "must not be empty", nil)
	}
	return nil
}

// ResolvedLogDir returns the merge log directory, defaulting to the data directory.
func (c *Config) ResolvedLogDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return c.DataDir
}

// ResolvedHistoryPath returns the ledger location, defaulting to <data_dir>/.livingset/history.db.
func (c *Config) ResolvedHistoryPath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	return history.DefaultPath(c.DataDir)
}

// ReconcilerOptions returns the reconciler settings of the merge section.
// The strategy must already be validated.
func (c *Config) ReconcilerOptions() []reconciler.Option {
	strategy, _ := reconciler.StrategyByType(reconciler.StrategyType(c.Strategy))
	opts := []reconciler.Option{
		reconciler.WithStrategy(strategy),
		reconciler.WithPurgedSampleSize(c.PurgedSampleSize),
	}
	if len(c.IgnoreColumns) > 0 {
		opts = append(opts, reconciler.WithDiffer(differ.New(differ.WithIgnoredFields(c.IgnoreColumns...))))
	}
	return opts
}

// Layout returns the configured file layout.
func (c *Config) Layout() livingset.Layout {
	return livingset.DefaultLayout(c.DataDir).WithOverrides(c.DataDir, c.Datasets)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
