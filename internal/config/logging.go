package config

import (
	"fmt"
	"log/slog"
	"os"
)

const EnvLexgoLogLevel = "LEXGO_LOG_LEVEL"

// LoggingConfig controls the verbosity of the pipeline binaries.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Finalize applies the default level, the environment override, and
// validates the result.
func (c *LoggingConfig) Finalize() error {
	if c.Level == "" {
		c.Level = "info"
	}
	if v := os.Getenv(EnvLexgoLogLevel); v != "" {
		c.Level = v
	}

	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
}

// SlogLevel returns the configured level as a slog.Level. Call after
// Finalize; unknown values fall back to info.
func (c *LoggingConfig) SlogLevel() slog.Level {
	level, err := parseLevel(c.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
