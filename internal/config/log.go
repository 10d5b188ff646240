package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLogLevel parses debug, info, warn (or warning) and error. An empty
// string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q (must be debug, info, warn, or error)", ErrInvalidLogLevel, s)
	}
}
