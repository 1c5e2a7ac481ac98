// Package mzap provides the zap-backed implementation of mlog.Logger.
//
// Unlike the teacher's logger, this one does not bridge to an OTLP log
// exporter (see DESIGN.md, Open Question resolution): it writes JSON in
// production and a colorized console encoder in development, and relies
// on OpenTelemetry traces (pkg/mtelemetry) for cross-service correlation.
package mzap

import (
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger behind the mlog.Logger interface.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger. envName == "production" selects the JSON encoder;
// anything else selects the development console encoder.
func New(envName, logLevel string) (*Logger, error) {
	var cfg zap.Config

	if envName == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if logLevel != "" {
		var lvl zapcore.Level
		if err := lvl.Set(logLevel); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stdout"}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &Logger{sugar: zl.Sugar()}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Info(args ...any)             { l.sugar.Info(args...) }
func (l *Logger) Infof(f string, args ...any)  { l.sugar.Infof(f, args...) }
func (l *Logger) Infoln(args ...any)           { l.sugar.Info(args...) }
func (l *Logger) Error(args ...any)            { l.sugar.Error(args...) }
func (l *Logger) Errorf(f string, args ...any) { l.sugar.Errorf(f, args...) }
func (l *Logger) Errorln(args ...any)          { l.sugar.Error(args...) }
func (l *Logger) Warn(args ...any)             { l.sugar.Warn(args...) }
func (l *Logger) Warnf(f string, args ...any)  { l.sugar.Warnf(f, args...) }
func (l *Logger) Warnln(args ...any)           { l.sugar.Warn(args...) }
func (l *Logger) Debug(args ...any)            { l.sugar.Debug(args...) }
func (l *Logger) Debugf(f string, args ...any) { l.sugar.Debugf(f, args...) }
func (l *Logger) Debugln(args ...any)          { l.sugar.Debug(args...) }
func (l *Logger) Fatal(args ...any)            { l.sugar.Fatal(args...) }
func (l *Logger) Fatalf(f string, args ...any) { l.sugar.Fatalf(f, args...) }

// WithFields returns a new Logger with the given key/value pairs attached
// to every subsequent entry; the receiver is left unchanged.
//
//nolint:ireturn
func (l *Logger) WithFields(fields ...any) mlog.Logger {
	return &Logger{sugar: l.sugar.With(fields...)}
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

var _ mlog.Logger = (*Logger)(nil)
