// Package logging owns the process-wide logrus logger. Log lines go to stderr so they never
// mix with a document written to stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logFile *os.File
	std     = newLogger()
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return std
}

// ParseLevel maps a level name to a logrus level. debug forces DebugLevel unless a more
// verbose level was asked for. Unknown or empty names fall back to info.
func ParseLevel(name string, debug bool) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		level = logrus.InfoLevel
	}
	if debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	return level
}

// Init sets the level and, when logPath is non-empty, tees output into that file.
// Calling Init again closes the previous file.
func Init(level logrus.Level, logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{os.Stderr}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	std.SetOutput(io.MultiWriter(writers...))
	std.SetLevel(level)
	return nil
}

// Close closes the log file, if any, and points the logger back at stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(os.Stderr)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
