package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Context key for storing logger
type contextKey string

const loggerContextKey contextKey = "nkp-as-built-logger"

// LogFileName is the file written inside the log directory.
const LogFileName = "nkp-as-built.log"

// LogLevel represents supported logging levels
type LogLevel string

const (
	// LogLevelDebug enables debug, info, warning, and error messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo enables info, warning, and error messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarning enables warning and error messages
	LogLevelWarning LogLevel = "warning"
	// LogLevelError enables only error messages
	LogLevelError LogLevel = "error"
)

// ValidLogLevels contains all supported log levels
var ValidLogLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warning": LogLevelWarning,
	"error":   LogLevelError,
}

// ValidateLogLevel validates if the provided log level is supported
func ValidateLogLevel(level string) error {
	normalizedLevel := strings.ToLower(strings.TrimSpace(level))
	if _, valid := ValidLogLevels[normalizedLevel]; !valid {
		return fmt.Errorf("invalid log level '%s'. Valid levels are: debug, info, warning, error", level)
	}
	return nil
}

// ParseLogLevel converts string log level to logrus.Level with validation
func ParseLogLevel(level string) (logrus.Level, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(level))) {
	case LogLevelDebug:
		return logrus.DebugLevel, nil
	case LogLevelInfo:
		return logrus.InfoLevel, nil
	case LogLevelWarning:
		return logrus.WarnLevel, nil
	case LogLevelError:
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level '%s'. Valid levels are: debug, info, warning, error", level)
	}
}

// SetupLogger creates a logger with the given level and stores it in the
// returned context. Logs go to stderr so that a report written to stdout
// stays clean; with logDir set they are mirrored into LogFileName there.
func SetupLogger(ctx context.Context, level, logDir string) context.Context {
	return context.WithValue(ctx, loggerContextKey, newLogger(os.Stderr, level, logDir))
}

func newLogger(console io.Writer, level, logDir string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := ParseLogLevel(level)
	if err != nil {
		fmt.Fprintf(console, "Warning: %v. Using 'info' level as default.\n", err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetReportCaller(true)

	writers := []io.Writer{console}
	if logDir != "" {
		if file, err := openLogFile(logDir); err != nil {
			fmt.Fprintf(console, "Warning: Failed to setup log file in directory '%s': %v. Logging to console only.\n", logDir, err)
		} else {
			writers = append(writers, file)
		}
	}

	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		// colour codes would end up in the log file
		DisableColors: len(writers) > 1,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return fmt.Sprintf("[%s:%d]", filename, f.Line), ""
		},
	})
	logger.SetOutput(io.MultiWriter(writers...))

	return logger
}

// openLogFile creates logDir if needed and opens the log file for appending.
func openLogFile(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}

	logFilePath := filepath.Join(logDir, LogFileName)
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
	}
	return file, nil
}

// GetLoggerFromContext retrieves the logger from context
func GetLoggerFromContext(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*logrus.Logger); ok {
		return logger
	}
	// Fallback to default logger if not found in context
	return logrus.New()
}

// GetCurrentLogLevel returns the current log level as a string
func GetCurrentLogLevel(ctx context.Context) string {
	switch GetLoggerFromContext(ctx).GetLevel() {
	case logrus.DebugLevel:
		return string(LogLevelDebug)
	case logrus.InfoLevel:
		return string(LogLevelInfo)
	case logrus.WarnLevel:
		return string(LogLevelWarning)
	case logrus.ErrorLevel:
		return string(LogLevelError)
	default:
		return "unknown"
	}
}

// IsDebugEnabled checks if debug logging is enabled
func IsDebugEnabled(ctx context.Context) bool {
	return GetLoggerFromContext(ctx).IsLevelEnabled(logrus.DebugLevel)
}
