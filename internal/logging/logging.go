// Package logging wraps zerolog with the sink this project needs: a
// structured, leveled log file used both for operational diagnostics and
// as the reactor's replay journal (every folded event is appended here at
// debug level before it mutates state).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logger  zerolog.Logger
	logFile *os.File
)

func init() {
	// A usable logger exists even before Init runs, so packages that log
	// at import time or in tests never see a nil sink.
	logger = zerolog.New(io.Discard).With().Timestamp().Logger()
}

// Init opens the log file under $HOME/.local/state/reactor/reactor.log and
// points the package logger at it. Safe to call more than once.
func Init() error {
	logDir := filepath.Join(os.Getenv("HOME"), ".local", "state", "reactor")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "reactor.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// InitConsole points the package logger at a human-readable console
// writer instead of a log file, for interactive CLI use.
func InitConsole(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Close closes the underlying log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func current() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Info starts an info-level structured log event.
func Info() *zerolog.Event { return current().Info() }

// Debug starts a debug-level structured log event.
func Debug() *zerolog.Event { return current().Debug() }

// Warn starts a warn-level structured log event.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error-level structured log event.
func Error() *zerolog.Event { return current().Error() }

// Log writes a one-line formatted message at info level, for call sites
// that predate the structured-event style and just want a message.
func Log(format string, args ...interface{}) {
	current().Info().Msg(fmt.Sprintf(format, args...))
}
