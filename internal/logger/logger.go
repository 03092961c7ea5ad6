package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	loggerInstance *slog.Logger
	once           sync.Once
)

// GetLogger returns a process-wide text logger writing to stderr. The level
// comes from LOG_LEVEL (debug, info, warn, error; default info).
func GetLogger() *slog.Logger {
	once.Do(func() {
		loggerInstance = New(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
		slog.SetDefault(loggerInstance)
	})
	return loggerInstance
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Value = slog.StringValue(a.Value.Time().Format(time.DateTime))
			}
			return a
		},
	}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
