package mlog

// NoneLogger discards every call. Used as the context default and in
// tests that don't assert on log output.
type NoneLogger struct{}

func (l *NoneLogger) Info(args ...any)            {}
func (l *NoneLogger) Infof(f string, args ...any) {}
func (l *NoneLogger) Infoln(args ...any)          {}

func (l *NoneLogger) Error(args ...any)            {}
func (l *NoneLogger) Errorf(f string, args ...any) {}
func (l *NoneLogger) Errorln(args ...any)          {}

func (l *NoneLogger) Warn(args ...any)            {}
func (l *NoneLogger) Warnf(f string, args ...any) {}
func (l *NoneLogger) Warnln(args ...any)          {}

func (l *NoneLogger) Debug(args ...any)            {}
func (l *NoneLogger) Debugf(f string, args ...any) {}
func (l *NoneLogger) Debugln(args ...any)          {}

func (l *NoneLogger) Fatal(args ...any)            {}
func (l *NoneLogger) Fatalf(f string, args ...any) {}

//nolint:ireturn
func (l *NoneLogger) WithFields(fields ...any) Logger { return l }

func (l *NoneLogger) Sync() error { return nil }
