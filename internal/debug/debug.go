// Package debug holds the process logger.
//
// Log format is controlled by LOG_FORMAT (text or json, default text) and the
// level by LOG_LEVEL (debug, info, warn, error; default warn). The --debug
// flag lowers the level to debug regardless of LOG_LEVEL.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	level     = new(slog.LevelVar)
	baseLevel = slog.LevelWarn

	mu     sync.RWMutex
	logger *slog.Logger
)

func init() {
	Configure(os.Stderr, os.Getenv("LOG_FORMAT"), ParseLevel(os.Getenv("LOG_LEVEL")))
}

// Configure replaces the process logger.
func Configure(w io.Writer, format string, lvl slog.Level) {
	mu.Lock()
	defer mu.Unlock()

	baseLevel = lvl
	level.Set(lvl)
	logger = slog.New(newHandler(w, format))
}

func newHandler(w io.Writer, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values map to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	if enable {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(baseLevel)
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	return level.Level() <= slog.LevelDebug
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	if !IsEnabled() {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}

// DebugSection logs a section marker.
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	Logger().Debug("=== " + section + " ===")
}

// DebugValue logs a single key/value pair.
func DebugValue(key string, value any) {
	if !IsEnabled() {
		return
	}
	Logger().Debug("value", slog.Any(key, value))
}
