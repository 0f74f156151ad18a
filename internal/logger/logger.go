// Package logger is the process-wide log sink of catalog-ingest.
//
// Info, Warn and Error lines are always emitted. Debug lines and section
// headers appear only in verbose mode (the --verbose flag). The serve
// command turns on timestamps so long-running output can be correlated.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

// Severities in increasing order.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag written in front of each line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

type sink struct {
	mu         sync.Mutex
	w          io.Writer
	verbose    bool
	timestamps bool
}

var std = &sink{w: os.Stderr}

// SetVerbose toggles debug output.
func SetVerbose(v bool) {
	std.mu.Lock()
	std.verbose = v
	std.mu.Unlock()
}

// IsVerbose reports whether debug output is on.
func IsVerbose() bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.verbose
}

// SetTimestamps prefixes every line with a UTC RFC3339 timestamp.
func SetTimestamps(v bool) {
	std.mu.Lock()
	std.timestamps = v
	std.mu.Unlock()
}

// SetOutput redirects all lines to w. Tests pass a buffer here.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.w = w
	std.mu.Unlock()
}

func Debug(format string, args ...any) { std.log(LevelDebug, format, args...) }

func Info(format string, args ...any) { std.log(LevelInfo, format, args...) }

func Warn(format string, args ...any) { std.log(LevelWarn, format, args...) }

func Error(format string, args ...any) { std.log(LevelError, format, args...) }

// Section writes a header that groups the debug lines following it.
func Section(name string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.verbose {
		fmt.Fprintf(std.w, "\n=== %s ===\n", name)
	}
}

func (s *sink) log(level Level, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level == LevelDebug && !s.verbose {
		return
	}

	line := fmt.Sprintf(format, args...)
	if s.timestamps {
		fmt.Fprintf(s.w, "%s [%s] %s\n", time.Now().UTC().Format(time.RFC3339), level, line)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s\n", level, line)
}
