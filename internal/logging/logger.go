package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger  = zerolog.Nop()
	logFile *os.File
)

// InitLogger opens a dated log file in dir. The terminal belongs to the UI,
// so diagnostics never go to stdout or stderr.
func InitLogger(dir, level string) error {
	if dir == "" {
		return fmt.Errorf("log directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	logPath := filepath.Join(dir, fmt.Sprintf("legal-chat-%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	logger = zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	logger.Info().Msg("=== Legal Chat Debug Log Started ===")

	return nil
}

// ParseLevel accepts zerolog level names; empty means info
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Logger exposes the underlying logger for structured fields
func Logger() *zerolog.Logger {
	return &logger
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}

// Close closes the log file and drops back to the no-op logger
func Close() {
	if logFile != nil {
		logger.Info().Msg("=== Legal Chat Debug Log Ended ===")
		logFile.Close()
		logFile = nil
		logger = zerolog.Nop()
	}
}
