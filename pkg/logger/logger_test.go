package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		level       string
		logDir      string
		wantLevel   logrus.Level
		wantWarning bool
	}{
		{
			name:      "Valid info level with log directory",
			level:     "info",
			logDir:    filepath.Join(tempDir, "nested", "logs"),
			wantLevel: logrus.InfoLevel,
		},
		{
			name:      "Valid debug level without log directory",
			level:     "debug",
			wantLevel: logrus.DebugLevel,
		},
		{
			name:        "Invalid level falls back to info",
			level:       "invalid",
			wantLevel:   logrus.InfoLevel,
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer
			logger := newLogger(&console, tt.level, tt.logDir)

			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("Expected level %v, got %v", tt.wantLevel, logger.GetLevel())
			}
			if got := strings.Contains(console.String(), "Warning:"); got != tt.wantWarning {
				t.Errorf("Warning printed = %v, want %v (output %q)", got, tt.wantWarning, console.String())
			}

			logger.Info("Test info message")
			if !strings.Contains(console.String(), "Test info message") {
				t.Errorf("Console output missing message: %q", console.String())
			}
			if !strings.Contains(console.String(), "[logger_test.go:") {
				t.Errorf("Console output missing caller: %q", console.String())
			}

			if tt.logDir != "" {
				data, err := os.ReadFile(filepath.Join(tt.logDir, LogFileName))
				if err != nil {
					t.Fatalf("Log file should exist: %v", err)
				}
				if !strings.Contains(string(data), "Test info message") {
					t.Errorf("Log file missing message: %q", string(data))
				}
				if strings.Contains(string(data), "\x1b[") {
					t.Errorf("Log file should not contain colour codes")
				}
			}
		})
	}
}

func TestNewLogger_UnwritableLogDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	var console bytes.Buffer
	logger := newLogger(&console, "info", filepath.Join(blocker, "logs"))
	logger.Info("still logging")

	if !strings.Contains(console.String(), "Failed to setup log file") {
		t.Errorf("Expected log file warning, got %q", console.String())
	}
	if !strings.Contains(console.String(), "still logging") {
		t.Errorf("Console logging should continue, got %q", console.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		expected  logrus.Level
		expectErr bool
	}{
		{"debug level", "debug", logrus.DebugLevel, false},
		{"info level", "info", logrus.InfoLevel, false},
		{"warning level", "warning", logrus.WarnLevel, false},
		{"error level", "error", logrus.ErrorLevel, false},
		{"case insensitive", "DEBUG", logrus.DebugLevel, false},
		{"with spaces", "  info  ", logrus.InfoLevel, false},
		{"invalid level", "invalid", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLogLevel(tt.level)

			if tt.expectErr && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if level != tt.expected {
				t.Errorf("Expected level %v, got %v", tt.expected, level)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	validLevels := []string{"debug", "info", "warning", "error", "DEBUG", "INFO"}
	invalidLevels := []string{"invalid", "", "trace", "fatal"}

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			if err := ValidateLogLevel(level); err != nil {
				t.Errorf("Level %s should be valid, got error: %v", level, err)
			}
		})
	}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			if err := ValidateLogLevel(level); err == nil {
				t.Errorf("Level %s should be invalid", level)
			}
		})
	}
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	if GetLoggerFromContext(context.Background()) == nil {
		t.Error("Fallback logger should not be nil")
	}
}

func TestGetCurrentLogLevel(t *testing.T) {
	ctx := SetupLogger(context.Background(), "warning", "")
	level := GetCurrentLogLevel(ctx)

	if level != "warning" {
		t.Errorf("Expected warning level, got %s", level)
	}
}

func TestIsDebugEnabled(t *testing.T) {
	// Test with debug enabled
	ctx := SetupLogger(context.Background(), "debug", "")
	if !IsDebugEnabled(ctx) {
		t.Error("Debug should be enabled for debug level")
	}

	// Test with debug disabled
	ctx = SetupLogger(context.Background(), "error", "")
	if IsDebugEnabled(ctx) {
		t.Error("Debug should be disabled for error level")
	}
}
