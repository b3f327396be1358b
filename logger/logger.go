package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is a global, exported variable that your main package can access.
var Log *slog.Logger

// init() runs automatically when the 'logger' package is imported.
// Until Setup is called everything goes to stdout at debug level.
func init() {
	Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// Setup rebuilds Log with the given level and, when file is not empty, tees
// the output into that file. The returned closer releases the file handle.
func Setup(level, file string) (io.Closer, error) {
	var writer io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		// Create a writer that writes to both the console (os.Stdout) and the file.
		writer = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	Log = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	return closer, nil
}

// ParseLevel maps debug/info/warn/error onto slog levels. Unknown values mean debug.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
