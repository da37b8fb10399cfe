// Package logging provides leveled, component-tagged logging on top of the
// standard logger.
package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"goanova/internal/errors"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = map[string]Level{
	"ERROR": LevelError,
	"WARN":  LevelWarn,
	"INFO":  LevelInfo,
	"DEBUG": LevelDebug,
}

// ParseLevel maps ERROR, WARN, INFO or DEBUG (any case) to a Level
func ParseLevel(s string) (Level, error) {
	level, ok := levelNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, errors.ConfigInvalid("unknown log level " + s)
	}
	return level, nil
}

// Logger writes "[LEVEL] [Component] message" lines
type Logger struct {
	level     Level
	component string
	out       *log.Logger
}

// New creates a logger writing to w
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// Default logs at Info to stderr
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

// With returns a copy tagged with component
func (l *Logger) With(component string) *Logger {
	c := *l
	c.component = component
	return &c
}

// Level returns the configured verbosity
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, "ERROR", format, args) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LevelWarn, "WARN", format, args) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LevelInfo, "INFO", format, args) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, "DEBUG", format, args) }

func (l *Logger) logf(level Level, tag, format string, args []interface{}) {
	if l == nil || l.level < level {
		return
	}
	prefix := "[" + tag + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	l.out.Printf(prefix+format, args...)
}
