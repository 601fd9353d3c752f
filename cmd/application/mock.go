package application

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/pkg/history"
	"github.com/agentstation/livingset/pkg/validation"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value; Merger
// then builds a real merger over DataDir.
type Mock struct {
	MergerFunc       func(opts ...livingset.Option) (livingset.Merger, error)
	HistoryFunc      func(ctx context.Context) (history.Ledger, error)
	MergeLoggerFunc  func() (*zerolog.Logger, io.Closer, error)
	DataDirFunc      func() string
	ParallelFunc     func() int
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Merger returns a merger using the mock function or a default merger over DataDir.
func (m *Mock) Merger(opts ...livingset.Option) (livingset.Merger, error) {
	if m.MergerFunc != nil {
		return m.MergerFunc(opts...)
	}
	return livingset.New(append([]livingset.Option{livingset.WithDataDir(m.DataDir())}, opts...)...)
}

// History returns a ledger using the mock function or nil.
func (m *Mock) History(ctx context.Context) (history.Ledger, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx)
	}
	return nil, nil
}

// MergeLogger returns a logger using the mock function or Logger with a no-op closer.
func (m *Mock) MergeLogger() (*zerolog.Logger, io.Closer, error) {
	if m.MergeLoggerFunc != nil {
		return m.MergeLoggerFunc()
	}
	return m.Logger(), io.NopCloser(nil), nil
}

// ValidationOptions returns no options.
func (m *Mock) ValidationOptions() []validation.Option {
	return nil
}

// DataDir returns the data directory using the mock function or ".".
func (m *Mock) DataDir() string {
	if m.DataDirFunc != nil {
		return m.DataDirFunc()
	}
	return "."
}

// Parallel returns parallelism using the mock function or 0.
func (m *Mock) Parallel() int {
	if m.ParallelFunc != nil {
		return m.ParallelFunc()
	}
	return 0
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
