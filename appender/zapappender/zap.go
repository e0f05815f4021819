// Package zapappender forwards entries into a zapcore.Core, so programs
// already configured around zap can attach their zap outputs to a
// logger hierarchy.
package zapappender

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// Appender writes entries to a zap core.
type Appender struct {
	appender.Base
	core    zapcore.Core
	release func() // closes outputs opened by NewFromConfig
}

// New wraps c.
func New(name string, c zapcore.Core) *Appender {
	a := &Appender{core: c}
	a.SetName(name)
	return a
}

// Config describes a zap core built by NewFromConfig.
type Config struct {
	Name string
	// Encoding is "json" or "console" (default: json)
	Encoding string
	// Output is "stdout", "stderr" or a file path (default: stdout)
	Output string
}

// NewFromConfig builds a production-style zap core at debug level and
// wraps it. Level filtering is left to the hierarchy.
func NewFromConfig(cfg Config) (*Appender, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Encoding) {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, errors.New("zapappender: unknown encoding " + cfg.Encoding)
	}

	out := cfg.Output
	if out == "" {
		out = "stdout"
	}
	ws, release, err := zap.Open(out)
	if err != nil {
		return nil, err
	}
	a := New(cfg.Name, zapcore.NewCore(enc, ws, zapcore.DebugLevel))
	a.release = release
	return a, nil
}

// Level maps a hierarchy level onto the nearest zap level. TRACE maps to
// DEBUG; FATAL maps to zap's FATAL, which a core writes without exiting.
func Level(l core.Level) zapcore.Level {
	switch {
	case l <= core.DebugLevel:
		return zapcore.DebugLevel
	case l == core.InfoLevel:
		return zapcore.InfoLevel
	case l == core.WarnLevel:
		return zapcore.WarnLevel
	case l == core.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}

// Field converts a structured field into its zap counterpart.
func Field(f core.Field) zap.Field {
	switch f.Type {
	case core.StringType:
		return zap.String(f.Key, f.Str)
	case core.IntType, core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	case core.TimeType:
		return zap.Time(f.Key, time.Unix(0, f.Int64))
	case core.DurationType:
		return zap.Duration(f.Key, time.Duration(f.Int64))
	case core.ErrorType:
		return zap.String(f.Key, f.Str)
	default:
		return zap.Any(f.Key, f.Any)
	}
}

// Append writes the entry if the core is enabled for its level.
func (a *Appender) Append(entry *core.Entry) error {
	if !a.Accept(entry) {
		return nil
	}
	ze := zapcore.Entry{
		Level:      Level(entry.Level),
		Time:       entry.Time,
		LoggerName: entry.LoggerName,
		Message:    entry.Message,
	}
	if !a.core.Enabled(ze.Level) {
		return nil
	}
	if entry.Caller.Defined {
		ze.Caller = zapcore.NewEntryCaller(0, entry.Caller.File, entry.Caller.Line, true)
		ze.Caller.Function = entry.Caller.Function
	}

	fields := make([]zap.Field, 0, len(entry.Fields)+1)
	for _, f := range entry.Fields {
		fields = append(fields, Field(f))
	}
	if entry.Goroutine != 0 {
		fields = append(fields, zap.Uint64("goroutine", entry.Goroutine))
	}
	return a.core.Write(ze, fields)
}

// Flush syncs the core.
func (a *Appender) Flush() error {
	return ignoreSyncErr(a.core.Sync())
}

// Close syncs the core, closes any output NewFromConfig opened and
// marks the appender closed.
func (a *Appender) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	err := ignoreSyncErr(a.core.Sync())
	if a.release != nil {
		a.release()
	}
	return err
}

// ignoreSyncErr drops the error fsync returns for terminals and pipes.
func ignoreSyncErr(err error) error {
	if err != nil && (strings.Contains(err.Error(), "invalid argument") ||
		strings.Contains(err.Error(), "inappropriate ioctl")) {
		return nil
	}
	return err
}
