// Package logger provides a small leveled logger with structured fields.
//
// User-facing messages go through the output package; this logger is for
// diagnostics (store hits and misses, fallbacks, file writes) and writes to
// stderr so it never mixes with generated text on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

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
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// Logger is the logging interface accepted by devenv components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// sink is shared by a logger and everything derived from it with With.
type sink struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

type leveled struct {
	sink   *sink
	level  Level
	fields []Field
}

// New creates a logger that drops messages below level.
func New(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &leveled{
		sink:  &sink{out: out, now: time.Now},
		level: level,
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return New(LevelSilent, io.Discard)
}

func (l *leveled) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &leveled{sink: l.sink, level: l.level, fields: merged}
}

func (l *leveled) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *leveled) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *leveled) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *leveled) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *leveled) log(level Level, msg string, fields []Field) {
	if level < l.level || l.level == LevelSilent {
		return
	}

	var b strings.Builder
	b.WriteString(l.sink.now().Format("15:04:05"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%-5s", level))
	b.WriteString(" ")
	b.WriteString(msg)

	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range l.fields {
			writeField(&b, f)
		}
		for _, f := range fields {
			writeField(&b, f)
		}
	}
	b.WriteString("\n")

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, b.String())
}

func writeField(b *strings.Builder, f Field) {
	value := fmt.Sprint(f.Value)
	if strings.ContainsAny(value, " \t\n\"") {
		value = fmt.Sprintf("%q", value)
	}
	fmt.Fprintf(b, " %s=%s", f.Key, value)
}
