// Package logging provides structured logging with log levels and a
// per-run correlation ID. It is a drop-in replacement for ad-hoc log.Printf
// calls that adds level gating, fields, and an optional JSON format.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents a log level.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string. Unrecognized values fall back to Info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// levelFromEnv reads the process log level from RUST_LOG (spec.md's named
// convention), falling back to LOG_LEVEL for compatibility with the
// teacher's original environment variable.
func levelFromEnv() Level {
	if v := os.Getenv("RUST_LOG"); v != "" {
		return ParseLevel(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return ParseLevel(v)
	}
	return LevelInfo
}

// Logger is a structured logger with level support.
type Logger struct {
	mu            sync.Mutex
	output        io.Writer
	level         Level
	json          bool
	fields        map[string]interface{}
	correlationID string
}

// Entry represents a single JSON-formatted log entry.
type Entry struct {
	Timestamp     string                 `json:"ts"`
	Level         string                 `json:"level"`
	Message       string                 `json:"msg"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Fields        map[string]interface{} `json:"fields,omitempty"`
}

var defaultLogger = New()

// New creates a logger configured from the environment: level from RUST_LOG
// (or LOG_LEVEL), JSON output from LOG_FORMAT=json, and a fresh per-run
// correlation ID.
func New() *Logger {
	return &Logger{
		output:        os.Stderr,
		level:         levelFromEnv(),
		json:          os.Getenv("LOG_FORMAT") == "json",
		fields:        make(map[string]interface{}),
		correlationID: uuid.New().String(),
	}
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// CorrelationID returns the logger's per-run correlation ID.
func (l *Logger) CorrelationID() string {
	return l.correlationID
}

// WithField returns a new logger sharing output/level/correlation ID but
// carrying an additional field on every subsequent line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		output:        l.output,
		level:         l.level,
		json:          l.json,
		fields:        fields,
		correlationID: l.correlationID,
	}
}

func (l *Logger) log(ctx context.Context, level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	if l.json {
		entry := Entry{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Level:         level.String(),
			Message:       msg,
			CorrelationID: l.correlationID,
		}
		if len(l.fields) > 0 {
			entry.Fields = l.fields
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.output, "ERROR: failed to marshal log entry: %v\n", err)
			return
		}
		fmt.Fprintln(l.output, string(data))
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")
	parts := []string{fmt.Sprintf("[%s]", l.correlationID[:8]), fmt.Sprintf("[%s]", level.String()), msg}
	if len(l.fields) > 0 {
		fieldParts := make([]string, 0, len(l.fields))
		for k, v := range l.fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("{%s}", strings.Join(fieldParts, ", ")))
	}
	fmt.Fprintf(l.output, "%s %s\n", timestamp, strings.Join(parts, " "))
	_ = ctx
}

// Trace logs a trace message (evaluator leaf/fold diagnostics).
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(context.Background(), LevelTrace, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(context.Background(), LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(context.Background(), LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(context.Background(), LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(context.Background(), LevelError, format, args...)
}

// Default returns the package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}
