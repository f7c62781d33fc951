// Package logger provides a named, leveled logger on top of the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a Logger emits
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel converts a configuration value (DEBUG, INFO, WARNING, ERROR) to a Level
// Unknown values default to LevelInfo
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[name] LEVEL: message" lines
type Logger struct {
	name   string
	level  Level
	logger *log.Logger
}

// New creates a Logger writing to stdout
func New(name string, level Level) *Logger {
	return NewWithWriter(os.Stdout, name, level)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(w io.Writer, name string, level Level) *Logger {
	return &Logger{
		name:   name,
		level:  level,
		logger: log.New(w, "", log.LstdFlags),
	}
}

// Named returns a child logger sharing the output and level
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:   l.name + "." + name,
		level:  l.level,
		logger: l.logger,
	}
}

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.print(LevelDebug, "DEBUG", format, args...)
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.print(LevelInfo, "INFO", format, args...)
}

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.print(LevelWarning, "WARNING", format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.print(LevelError, "ERROR", format, args...)
}

// Fatal logs the message and exits the process
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logger.Printf("[%s] FATAL: %s", l.name, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (l *Logger) print(level Level, label, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.logger.Printf("[%s] %s: %s", l.name, label, fmt.Sprintf(format, args...))
}
