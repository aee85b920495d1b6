package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const LevelCritical = slog.Level(12)

// Error kinds let dashboards split expected rejections from failures.
const (
	kindBusiness = "business"
	kindInternal = "internal"
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

type Options struct {
	Output    io.Writer
	Level     slog.Level
	Format    string
	AddSource bool
	Service   string
}

type slogLogger struct {
	base *slog.Logger
}

// NewFromEnv builds the process logger before config is loaded. It reads
// ENV, LOG_LEVEL, LOG_FORMAT and LOG_SOURCE directly.
func NewFromEnv() Logger {
	env := normalize(os.Getenv("ENV"))
	if env == "" {
		env = "development"
	}
	return New(Options{
		Output:    os.Stdout,
		Level:     ParseLevel(os.Getenv("LOG_LEVEL"), env),
		Format:    os.Getenv("LOG_FORMAT"),
		AddSource: normalize(os.Getenv("LOG_SOURCE")) == "true",
		Service:   "family-hub",
	})
}

func New(opts Options) Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	handlerOptions := &slog.HandlerOptions{
		Level:       opts.Level,
		AddSource:   opts.AddSource,
		ReplaceAttr: renameCritical,
	}

	var handler slog.Handler
	if normalize(opts.Format) == "text" {
		handler = slog.NewTextHandler(output, handlerOptions)
	} else {
		handler = slog.NewJSONHandler(output, handlerOptions)
	}

	base := slog.New(handler)
	if opts.Service != "" {
		base = base.With("service", opts.Service)
	}
	return &slogLogger{base: base}
}

// Discard drops every record.
func Discard() Logger {
	return New(Options{Output: io.Discard, Level: LevelCritical + 1, Format: "text"})
}

func (l *slogLogger) Debug(message string, args ...any) { l.base.Debug(message, args...) }

func (l *slogLogger) Info(message string, args ...any) { l.base.Info(message, args...) }

func (l *slogLogger) Warn(message string, args ...any) { l.base.Warn(message, args...) }

func (l *slogLogger) Error(message string, args ...any) { l.base.Error(message, args...) }

func (l *slogLogger) Critical(message string, args ...any) {
	l.base.Log(context.Background(), LevelCritical, message, args...)
}

// BusinessError records a rejected request (validation, conflicts, missing
// records) at WARN.
func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	l.logError(slog.LevelWarn, kindBusiness, message, err, args)
}

// InternalError records an unexpected failure at ERROR.
func (l *slogLogger) InternalError(message string, err error, args ...any) {
	l.logError(slog.LevelError, kindInternal, message, err, args)
}

func (l *slogLogger) logError(level slog.Level, kind, message string, err error, args []any) {
	if err == nil {
		return
	}
	attrs := make([]any, 0, len(args)+4)
	attrs = append(attrs, "err", err.Error(), "error_kind", kind)
	attrs = append(attrs, args...)
	l.base.Log(context.Background(), level, message, attrs...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

func (l *slogLogger) Slog() *slog.Logger {
	return l.base
}

// ParseLevel maps LOG_LEVEL to a slog level. Unknown values fall back to
// DEBUG in development and INFO elsewhere.
func ParseLevel(value string, env string) slog.Level {
	switch normalize(value) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical", "fatal":
		return LevelCritical
	}
	if normalize(env) == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func renameCritical(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
			attr.Value = slog.StringValue("CRITICAL")
		}
	}
	return attr
}
