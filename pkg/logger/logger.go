package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

var (
	level   = new(slog.LevelVar)
	Default = newLogger(os.Stdout)
)

func init() {
	switch os.Getenv("LOG_LEVEL") {
	case "":
	case "ERROR":
		level.Set(slog.LevelError)
	case "WARN":
		level.Set(slog.LevelWarn)
	case "INFO":
		level.Set(slog.LevelInfo)
	case "DEBUG":
		level.Set(slog.LevelDebug)
	default:
		fmt.Printf("Unknown log level: %s != [ERROR,WARN,INFO,DEBUG]\n", os.Getenv("LOG_LEVEL"))
	}
}

func newLogger(w *os.File) *slog.Logger {
	if isatty.IsTerminal(w.Fd()) {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: timeFormat,
		}))
	}
	return NewJSON(w)
}

// NewJSON returns a logger writing JSON lines to w that shares the package level.
func NewJSON(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetOutput replaces the default logger. Used by tests to capture output.
func SetOutput(l *slog.Logger) {
	Default = l
}

func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

func IsDebug() bool {
	return Default.Enabled(context.Background(), slog.LevelDebug)
}

func IsInfo() bool {
	return Default.Enabled(context.Background(), slog.LevelInfo)
}

func IsWarn() bool {
	return Default.Enabled(context.Background(), slog.LevelWarn)
}

func Debug(msg string, args ...any) {
	Default.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default.Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	Default.Error(msg, args...)
	os.Exit(1)
}

func Debugf(format string, args ...any) {
	if !IsDebug() {
		return
	}
	Default.Debug(fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	if !IsInfo() {
		return
	}
	Default.Info(fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	if !IsWarn() {
		return
	}
	Default.Warn(fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	Default.Error(fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...any) {
	Default.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Since is a convenience attribute for elapsed durations in structured logs.
func Since(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}
