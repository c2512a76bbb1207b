// Package debug is dbdeck's opt-in diagnostic log. With --debug every
// launch truncates ~/.dbdeck/debug.log and writes slog text records to it;
// otherwise all output is discarded.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the directory under the user's home holding the log.
	LogDirName = ".dbdeck"
)

// sink is the current log destination. A nil file means disabled.
type sink struct {
	file   *os.File
	logger *slog.Logger
}

var (
	current atomic.Pointer[sink]
	// closeMu serializes Init and Close so a file is never closed twice.
	closeMu sync.Mutex

	getLogPath = defaultLogPath
)

var discard = &sink{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

func init() {
	current.Store(discard)
}

// Init enables or disables logging. Enabling creates the log directory and
// truncates any previous log.
func Init(enable bool) error {
	closeMu.Lock()
	defer closeMu.Unlock()

	if !enable {
		swap(discard)
		return nil
	}

	path, err := getLogPath()
	if err != nil {
		return fmt.Errorf("determine log path: %w", err)
	}
	//nolint:gosec // G301: user config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // G304: the path is derived from the user's home directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	swap(&sink{file: f, logger: logger})
	logger.Info("dbdeck debug log started", slog.String("at", time.Now().Format(time.RFC3339)))
	return nil
}

// swap installs next and closes the previous file. Callers hold closeMu.
func swap(next *sink) {
	prev := current.Swap(next)
	if prev != nil && prev.file != nil {
		_ = prev.file.Close()
	}
}

// Close stops logging and closes the file. It is safe to call repeatedly.
func Close() {
	closeMu.Lock()
	defer closeMu.Unlock()
	swap(discard)
}

// Logger returns the structured logger; never nil.
func Logger() *slog.Logger {
	return current.Load().logger
}

// Enabled reports whether records reach a file.
func Enabled() bool {
	return current.Load().file != nil
}

// Log writes its arguments, formatted like fmt.Print, at debug level.
func Log(v ...any) {
	if s := current.Load(); s.file != nil {
		s.logger.Debug(fmt.Sprint(v...))
	}
}

// Logf writes a printf-style message at debug level.
func Logf(format string, v ...any) {
	if s := current.Load(); s.file != nil {
		s.logger.Debug(fmt.Sprintf(format, v...))
	}
}

// GetLogPath returns where Init(true) writes.
func GetLogPath() (string, error) {
	return getLogPath()
}

func defaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}
