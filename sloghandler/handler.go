package sloghandler

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/logger"
)

// Handler is a slog.Handler logging through a logger.Logger.
type Handler struct {
	logger logger.Logger
	attrs  []core.Field
	group  string
}

// New creates a slog.Handler that logs through l. Enabled follows the
// effective level of l, so level changes in the hierarchy apply at once.
func New(l logger.Logger) *Handler {
	return &Handler{logger: l}
}

// Logger returns the wrapped logger.
func (s *Handler) Logger() logger.Logger {
	return s.logger
}

// Enabled reports whether the handler handles records at the given level.
func (s *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.IsEnabledFor(Level(level))
}

// Handle converts the record into fields and logs it.
func (s *Handler) Handle(_ context.Context, record slog.Record) error {
	node := s.logger.Node()
	if !s.logger.Valid() {
		return nil
	}

	fields := make([]core.Field, 0, len(s.attrs)+record.NumAttrs())
	fields = append(fields, s.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, s.group, a)
		return true
	})

	var caller core.CallerInfo
	if record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		caller = core.NewCallerInfo(f.File, f.Line)
		caller.Function = f.Function
	}

	node.ForcedLog(Level(record.Level), record.Message, caller, fields)
	return nil
}

// WithAttrs returns a new Handler with additional attributes.
func (s *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendAttr(newAttrs, s.group, a)
	}
	return &Handler{logger: s.logger, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new Handler that prefixes the keys of later
// attributes with name.
func (s *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &Handler{logger: s.logger, attrs: s.attrs, group: newGroup}
}

// Level converts a slog.Level to a core.Level.
func Level(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.FatalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// appendAttr converts a slog.Attr to fields, prepending the group prefix
// if present. Groups are flattened into dotted keys.
func appendAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}
	key := a.Key
	if group != "" && key != "" {
		key = group + "." + a.Key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return append(fields, core.String(key, a.Value.String()))
	case slog.KindInt64:
		return append(fields, core.Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(fields, core.Any(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return append(fields, core.Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(fields, core.Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(fields, core.Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(fields, core.Duration(key, a.Value.Duration()))
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, key, ga)
		}
		return fields
	default:
		if err, ok := a.Value.Any().(error); ok {
			return append(fields, core.NamedErr(key, err))
		}
		return append(fields, core.Any(key, a.Value.Any()))
	}
}
