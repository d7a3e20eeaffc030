package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

type Field struct {
	Key   string
	Value any
}

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
}

type slogLogger struct {
	logger *slog.Logger
	level  Level
}

// New returns a logfmt logger writing to out. Nil out writes to stdout.
func New(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stdout
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level.slogLevel()})
	return &slogLogger{logger: slog.New(handler), level: level}
}

func Nop() Logger {
	return New(io.Discard, Error+1)
}

func (l *slogLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	return level >= l.level
}

func (l *slogLogger) With(fields ...Field) Logger {
	if l == nil {
		return Nop()
	}
	return &slogLogger{logger: l.logger.With(attrs(fields)...), level: l.level}
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(Debug, msg, fields...) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(Info, msg, fields...) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(Warn, msg, fields...) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(Error, msg, fields...) }

func (l *slogLogger) log(level Level, msg string, fields ...Field) {
	if l == nil || !l.Enabled(level) {
		return
	}
	l.logger.Log(context.Background(), level.slogLevel(), msg, attrs(fields)...)
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.Key) == "" {
			continue
		}
		out = append(out, slog.Any(field.Key, field.Value))
	}
	return out
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func NewRequestID() string {
	return uuid.NewString()
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}
