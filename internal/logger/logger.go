package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	Debug  = Logger.Debug
	Info   = Logger.Info
	Warn   = Logger.Warn
	Error  = Logger.Error
)

// Setup replaces the package logger. Format is "text" or "json",
// level is one of debug, info, warn, error.
func Setup(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(h)
	Debug = Logger.Debug
	Info = Logger.Info
	Warn = Logger.Warn
	Error = Logger.Error
	slog.SetDefault(Logger)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
