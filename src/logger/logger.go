package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Log is the process-wide logger. Call Init once from main.
var Log = New(os.Stderr, "info")

// New creates a logger writing to w with timestamps enabled.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	l.SetLevel(ParseLevel(level))
	return l
}

// Init replaces the global logger.
func Init(level string) {
	Log = New(os.Stderr, level)
}

// ParseLevel maps LOG_LEVEL values to log levels, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Debug(msg string, kv ...any) { Log.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { Log.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { Log.Warn(msg, kv...) }
func Error(msg string, kv ...any) { Log.Error(msg, kv...) }
