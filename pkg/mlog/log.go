// Package mlog defines the structured-logging interface used throughout
// the service, independent of the concrete backend (zap in production, a
// no-op logger in tests that don't care about log output).
package mlog

import "context"

// Logger is the common interface every part of the service logs through.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)

	WithFields(fields ...any) Logger

	Sync() error
}

type loggerContextKey string

const loggerKey loggerContextKey = "logger"

// ContextWithLogger returns a context carrying logger.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the Logger stored in ctx, or a NoneLogger if absent.
//
//nolint:ireturn
func FromContext(ctx context.Context) Logger {
	if v := ctx.Value(loggerKey); v != nil {
		if l, ok := v.(Logger); ok {
			return l
		}
	}

	return &NoneLogger{}
}
