// Package telemetry provides the default structured logger used for the
// codec's internal diagnostics: pool growth and lenient-mode bad-data
// events that occur before (or in place of) a caller's BadDataFound
// callback. It is never on the error-return path — it only ever narrates.
package telemetry

import (
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var (
	once    sync.Once
	logger  *slog.Logger
	current *slog.Logger
	mu      sync.Mutex
)

func defaultLogger() *slog.Logger {
	once.Do(func() {
		logger = slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
			Level:   slog.LevelInfo,
			NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
		}))
	})
	return logger
}

// Logger returns the process-wide logger used for codec diagnostics,
// falling back to a tint-backed stderr logger the first time it is asked.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return current
	}
	return defaultLogger()
}

// SetLogger overrides the process-wide diagnostic logger, letting an
// embedding application route pool-growth and bad-data narration into its
// own logging pipeline instead of the tint-backed stderr default.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// PoolGrew logs that a row buffer outgrew its rented capacity and had to
// double, so callers tuning CharBufferSize/ByteBufferSize have a signal.
func PoolGrew(oldCap, newCap int) {
	Logger().Debug("gocsv: row buffer grew", "old_capacity", oldCap, "new_capacity", newCap)
}

// BadData logs a lenient-mode recovery event before the caller's
// BadDataFound callback runs (or in its place, if none is registered).
func BadData(rowIndex, lineNumber int64, fieldIndex int, message string) {
	Logger().Warn("gocsv: bad data recovered",
		"row_index", rowIndex,
		"line_number", lineNumber,
		"field_index", fieldIndex,
		"message", message,
	)
}
