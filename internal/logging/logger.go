package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// The session owns the terminal, so log output can never go to stdout
// or stderr without shredding the display. Logging stays off (Nop)
// unless a file is configured.
var globalLogger = zerolog.Nop()

// Init sets up file logging with rotation. An empty path leaves the
// Nop logger in place.
func Init(logFile, level string) error {
	if logFile == "" {
		return nil
	}
	if strings.HasPrefix(logFile, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		logFile = filepath.Join(homeDir, logFile[2:])
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return err
	}

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxAge:     14, // days
		MaxBackups: 3,
		LocalTime:  true,
		Compress:   true,
	}

	globalLogger = zerolog.New(fileWriter).
		Level(logLevel).
		With().
		Timestamp().
		Logger()
	return nil
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	globalLogger.Debug().Msgf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	globalLogger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	globalLogger.Warn().Msgf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	globalLogger.Error().Msgf(format, args...)
}
