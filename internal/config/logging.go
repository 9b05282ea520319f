package config

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global zerolog logger instance.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logFileHandle tracks the current log file so CloseLogFile can release it.
//
//nolint:gochecknoglobals // Tracks the global logger's file handle for proper cleanup
var logFileHandle *os.File

// logMu protects logFileHandle and Logger.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.Mutex

// InitLogger initializes the package-level Logger with the given level and
// outputs. When console is true, a human-readable ConsoleWriter on stderr is
// included (debug mode). When logFile is non-empty, structured JSON output is
// appended there. With neither, the logger is disabled so the TUI surface
// stays clean.
//
// An unparseable level falls back to InfoLevel.
func InitLogger(level string, console bool, logFile string) error {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer

	if console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	// Close any previously opened log file to prevent file handle leaks.
	closeLogFileLocked()

	if logFile != "" {
		if dirErr := os.MkdirAll(filepath.Dir(logFile), defaultConfigDirPermissions); dirErr != nil {
			return dirErr
		}
		f, fileErr := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultConfigFilePermissions)
		if fileErr != nil {
			return fileErr
		}
		logFileHandle = f
		writers = append(writers, f)
	}

	if len(writers) == 0 {
		Logger = zerolog.Nop()
		return nil
	}

	Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return nil
}

// CloseLogFile releases the log file handle opened by InitLogger, if any.
func CloseLogFile() error {
	logMu.Lock()
	defer logMu.Unlock()
	return closeLogFileLockedErr()
}

func closeLogFileLocked() {
	_ = closeLogFileLockedErr()
}

func closeLogFileLockedErr() error {
	if logFileHandle == nil {
		return nil
	}
	err := logFileHandle.Close()
	logFileHandle = nil
	return err
}
