// Package diag carries the library's own diagnostics: configuration
// warnings such as "no appenders could be found for logger", and
// failures of individual appenders that dispatch and shutdown contain.
//
// Diagnostics never go through a logging hierarchy, so a broken
// appender cannot recurse into itself.
package diag

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Reporter receives internal diagnostics.
type Reporter interface {
	Warn(msg string, fields ...zap.Field)
	Error(msg string, err error, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
}

// Zap is a Reporter backed by a zap logger.
type Zap struct {
	l *zap.Logger
}

// NewZap wraps l. A nil l yields a no-op reporter.
func NewZap(l *zap.Logger) *Zap {
	if l == nil {
		l = zap.NewNop()
	}
	return &Zap{l: l}
}

func (z *Zap) Warn(msg string, fields ...zap.Field) { z.l.Warn(msg, fields...) }

func (z *Zap) Error(msg string, err error, fields ...zap.Field) {
	z.l.Error(msg, append(fields, zap.Error(err))...)
}

func (z *Zap) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }

// Sync flushes the underlying zap logger.
func (z *Zap) Sync() error { return z.l.Sync() }

// Options configure the default reporter.
type Options struct {
	// Quiet suppresses every diagnostic.
	Quiet bool
	// Debug enables internal debugging output.
	Debug bool
}

// New builds a console reporter writing to stderr.
func New(opts Options) Reporter {
	if opts.Quiet {
		return Nop()
	}
	level := zapcore.WarnLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	return NewZap(zap.New(core).Named("hlog"))
}

var (
	defaultOnce sync.Once
	defaultRep  Reporter
)

// Default returns the process-wide reporter. HLOG_QUIET=1 silences it
// and HLOG_DEBUG=1 enables internal debugging.
func Default() Reporter {
	defaultOnce.Do(func() {
		defaultRep = New(Options{
			Quiet: os.Getenv("HLOG_QUIET") == "1",
			Debug: os.Getenv("HLOG_DEBUG") == "1",
		})
	})
	return defaultRep
}

type nop struct{}

func (nop) Warn(string, ...zap.Field)         {}
func (nop) Error(string, error, ...zap.Field) {}
func (nop) Debug(string, ...zap.Field)        {}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nop{} }
