package app

import (
	"bytes"
	"strings"
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "default level when no flags set",
			config:   &Config{},
			expected: "info",
		},
		{
			name:     "verbose flag sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet flag sets warn",
			config:   &Config{Quiet: true},
			expected: "warn",
		},
		{
			name:     "explicit log-level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:     "explicit log-level overrides quiet",
			config:   &Config{LogLevel: "trace", Quiet: true},
			expected: "trace",
		},
		{
			name:     "invalid log-level falls back to info",
			config:   &Config{LogLevel: "loud"},
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(tt.config); got != tt.expected {
				t.Errorf("determineLogLevel() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestNewMergeLogger verifies merge events reach the tee at info level even
// when the console is set to warn.
func TestNewMergeLogger(t *testing.T) {
	var tee bytes.Buffer
	config := &Config{LogFormat: "json", LogOutput: "discard", LogLevel: "warn", LogFields: "host=runner-1"}

	logger := NewMergeLogger(config, &tee)
	logger.Info().Str("data_type", "striking").Int("total", 3).Msg("Merge finished")
	logger.Debug().Msg("below info")

	out := tee.String()
	if !strings.Contains(out, `"data_type":"striking"`) || !strings.Contains(out, `"total":3`) {
		t.Errorf("tee output %q lacks merge statistics", out)
	}
	if !strings.Contains(out, `"host":"runner-1"`) {
		t.Errorf("tee output %q lacks configured log fields", out)
	}
	if strings.Contains(out, "below info") {
		t.Errorf("tee output %q contains a debug event", out)
	}
}
