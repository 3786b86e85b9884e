package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// NormalizeLogLevel maps level aliases to the names slog understands.
//
// Aliases:
//   - "warning" -> "warn"
//   - "err" -> "error"
//   - "trace" -> "debug"
func NormalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))

	switch level {
	case "warning":
		return "warn"
	case "err":
		return "error"
	case "trace":
		return "debug"
	default:
		return level
	}
}

// ParseLogLevel converts a level name into a slog.Level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	level = NormalizeLogLevel(level)
	if level == "" {
		return slog.LevelInfo, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return l, nil
}
