// Package logging provides the shared logging setup for stsetup
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Logger wraps the standard logger with optional file output
type Logger struct {
	*log.Logger
	file *os.File
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize sets up file logging in addition to stderr. Without it,
// messages go to stderr only, which is what the one-shot CLI path uses.
func Initialize(logDir string) error {
	var initErr error
	once.Do(func() {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}

		logPath := filepath.Join(logDir, "stsetup.log")
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		multiWriter := io.MultiWriter(os.Stderr, file)
		defaultLogger = &Logger{
			Logger: log.New(multiWriter, "", log.LstdFlags),
			file:   file,
		}

		log.SetOutput(multiWriter)
	})
	return initErr
}

// Close closes the log file if file logging was initialized
func Close() error {
	if defaultLogger != nil && defaultLogger.file != nil {
		return defaultLogger.file.Close()
	}
	return nil
}

func output(msg string) {
	if defaultLogger != nil {
		defaultLogger.Println(msg)
	} else {
		log.Println(msg)
	}
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	output(fmt.Sprintf("[INFO] "+format, v...))
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	output(fmt.Sprintf("[WARN] "+format, v...))
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	output(fmt.Sprintf("[ERROR] "+format, v...))
}

// Debug logs a debug message when DEBUG=true is set
func Debug(format string, v ...interface{}) {
	if os.Getenv("DEBUG") == "true" {
		output(fmt.Sprintf("[DEBUG] "+format, v...))
	}
}
