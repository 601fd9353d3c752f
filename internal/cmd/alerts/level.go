package alerts

import (
	"fmt"

	"github.com/agentstation/livingset/internal/cmd/emoji"
	"github.com/agentstation/livingset/pkg/merge"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
	// LevelSkipped indicates a data type that was not processed.
	LevelSkipped
)

// LevelFor maps a merge status to an alert level.
func LevelFor(status merge.Status) Level {
	switch status {
	case merge.StatusSuccess:
		return LevelSuccess
	case merge.StatusSkipped:
		return LevelSkipped
	default:
		return LevelError
	}
}

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol for the alert level.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return emoji.Error
	case LevelWarning:
		return emoji.Warning
	case LevelSuccess:
		return emoji.Success
	case LevelSkipped:
		return emoji.Skipped
	default:
		return emoji.Info
	}
}

// Color returns ANSI color codes for terminal output.
func (l Level) Color() string {
	switch l {
	case LevelError:
		return "\033[31m" // Red
	case LevelWarning:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelSkipped:
		return "\033[90m" // Gray
	default:
		return "\033[36m" // Cyan
	}
}

// ResetColor returns the ANSI reset code.
func ResetColor() string {
	return "\033[0m"
}
