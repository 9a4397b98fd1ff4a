package nightlight

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes through zap. The debug switch flips an atomic level,
// so it is safe to toggle while systems are logging.
type DefaultLogger struct {
	level zap.AtomicLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	l := newZapBackedLogger(core, level, prefix)
	l.SetDebug(debug)
	return l
}

func newZapBackedLogger(core zapcore.Core, level zap.AtomicLevel, prefix string) *DefaultLogger {
	base := zap.New(core)
	if prefix != "" {
		base = base.Named(prefix)
	}
	return &DefaultLogger{
		level: level,
		base:  base,
		sugar: base.Sugar(),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Zap exposes the structured logger for packages that log with fields.
func (l *DefaultLogger) Zap() *zap.Logger { return l.base }

func (l *DefaultLogger) Sync() error { return l.base.Sync() }

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := NewDefaultLogger(m.Prefix, m.Debug)
	app.addResources(logger)
	cmd.OnTeardown(func() { _ = logger.Sync() })
}

type nopLogger struct{}

func NewNopLogger() Logger                             { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// ZapOf returns the structured logger behind l, or a no-op zap logger.
func ZapOf(l Logger) *zap.Logger {
	if z, ok := l.(interface{ Zap() *zap.Logger }); ok {
		return z.Zap()
	}
	return zap.NewNop()
}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
