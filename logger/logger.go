package logger

import (
	"fmt"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// Logger is a handle to a node of a Hierarchy. It is a small value,
// cheap to copy and safe for concurrent use; copies refer to the same
// node. Fields bound with With are attached to every entry logged
// through the returned handle.
//
// The zero Logger, and every Logger of a closed Hierarchy, is invalid:
// logging through it does nothing, IsEnabledFor reports false, and the
// structural methods panic with ErrInvalidHandle.
type Logger struct {
	node   Node
	fields []core.Field
}

// Valid reports whether the handle refers to a live node.
func (l Logger) Valid() bool {
	return l.node != nil && !l.node.impl().h.closed.Load()
}

func (l Logger) mustImpl() *LoggerImpl {
	if !l.Valid() {
		panic(ErrInvalidHandle)
	}
	return l.node.impl()
}

// Node returns the underlying node, or nil for the zero Logger.
func (l Logger) Node() Node {
	return l.node
}

// Name returns the logger name, or "" for the zero Logger.
func (l Logger) Name() string {
	if l.node == nil {
		return ""
	}
	return l.node.Name()
}

// Hierarchy returns the owning hierarchy, or nil for the zero Logger.
func (l Logger) Hierarchy() *Hierarchy {
	if l.node == nil {
		return nil
	}
	return l.node.Hierarchy()
}

// Parent returns the parent logger. It reports false for the root and
// for invalid handles.
func (l Logger) Parent() (Logger, bool) {
	if !l.Valid() {
		return Logger{}, false
	}
	p := l.node.Parent()
	if p == nil {
		return Logger{}, false
	}
	return Logger{node: p}, true
}

// With returns a handle to the same node that adds fields to every entry.
func (l Logger) With(fields ...core.Field) Logger {
	merged := make([]core.Field, len(l.fields)+len(fields))
	copy(merged, l.fields)
	copy(merged[len(l.fields):], fields)
	return Logger{node: l.node, fields: merged}
}

// IsEnabledFor reports whether an entry at level would be logged.
func (l Logger) IsEnabledFor(level Level) bool {
	return l.Valid() && l.node.IsEnabledFor(level)
}

// LogLevel returns the explicit level, NotSetLevel if inherited.
func (l Logger) LogLevel() Level {
	if l.node == nil {
		return core.NotSetLevel
	}
	return l.node.LogLevel()
}

// SetLogLevel sets the level; NotSetLevel restores inheritance.
func (l Logger) SetLogLevel(level Level) {
	l.mustImpl()
	l.node.SetLogLevel(level)
}

// ChainedLogLevel returns the effective level.
func (l Logger) ChainedLogLevel() Level {
	if !l.Valid() {
		return core.OffLevel
	}
	return l.node.ChainedLogLevel()
}

// Additivity reports whether entries also reach ancestor appenders.
func (l Logger) Additivity() bool {
	if l.node == nil {
		return false
	}
	return l.node.Additivity()
}

// SetAdditivity sets the additivity flag.
func (l Logger) SetAdditivity(additive bool) {
	l.mustImpl()
	l.node.SetAdditivity(additive)
}

// AddAppender attaches a to this logger.
func (l Logger) AddAppender(a appender.Appender) {
	l.mustImpl()
	l.node.AddAppender(a)
}

// GetAllAppenders returns the appenders attached to this logger.
func (l Logger) GetAllAppenders() []appender.Appender {
	if l.node == nil {
		return nil
	}
	return l.node.GetAllAppenders()
}

// GetAppender returns the first attached appender called name, or nil.
func (l Logger) GetAppender(name string) appender.Appender {
	if l.node == nil {
		return nil
	}
	return l.node.GetAppender(name)
}

// RemoveAllAppenders detaches every appender without closing them.
func (l Logger) RemoveAllAppenders() {
	l.mustImpl()
	l.node.RemoveAllAppenders()
}

// RemoveAppender detaches a without closing it.
func (l Logger) RemoveAppender(a appender.Appender) {
	l.mustImpl()
	l.node.RemoveAppender(a)
}

// RemoveAppenderByName detaches the appenders called name.
func (l Logger) RemoveAppenderByName(name string) {
	l.mustImpl()
	l.node.RemoveAppenderByName(name)
}

// CloseNestedAppenders closes the appenders nested in composite
// appenders attached to this logger.
func (l Logger) CloseNestedAppenders() error {
	l.mustImpl()
	return l.node.CloseNestedAppenders()
}

// log is the internal logging method behind the convenience methods.
// It must be called directly by them so the caller skip is correct.
func (l Logger) log(level Level, msg string, fields []core.Field) {
	var caller core.CallerInfo
	h := l.node.impl().h
	if h.caller {
		caller = core.GetCaller(h.callerSkip)
	}
	l.node.ForcedLog(level, msg, caller, l.merge(fields))
}

func (l Logger) merge(fields []core.Field) []core.Field {
	if len(l.fields) == 0 {
		return fields
	}
	if len(fields) == 0 {
		return l.fields
	}
	merged := make([]core.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	return append(merged, fields...)
}

// Log logs msg at level if the level is enabled.
func (l Logger) Log(level Level, msg string, fields ...core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.log(level, msg, fields)
}

// LogAt logs msg at level with an explicit call site, for wrappers that
// already know it. An empty file leaves the caller undefined.
func (l Logger) LogAt(level Level, msg, file string, line int, fields ...core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.node.ForcedLog(level, msg, core.NewCallerInfo(file, line), l.merge(fields))
}

// ForcedLog logs msg at level without checking whether it is enabled.
func (l Logger) ForcedLog(level Level, msg string, fields ...core.Field) {
	if !l.Valid() {
		return
	}
	l.log(level, msg, fields)
}

// Assertion logs msg at FATAL when cond is false. It does not exit.
func (l Logger) Assertion(cond bool, msg string, fields ...core.Field) {
	if cond || !l.Valid() {
		return
	}
	l.log(core.FatalLevel, msg, fields)
}

// Trace logs a trace message
func (l Logger) Trace(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.TraceLevel) {
		return
	}
	l.log(core.TraceLevel, msg, fields)
}

// Debug logs a debug message
func (l Logger) Debug(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.DebugLevel) {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l Logger) Info(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.InfoLevel) {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l Logger) Warn(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.WarnLevel) {
		return
	}
	l.log(core.WarnLevel, msg, fields)
}

// Error logs an error message
func (l Logger) Error(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.ErrorLevel) {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Fatal logs a fatal message. It does not exit the program.
func (l Logger) Fatal(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.FatalLevel) {
		return
	}
	l.log(core.FatalLevel, msg, fields)
}

// Tracef logs a trace message with formatting
func (l Logger) Tracef(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.TraceLevel) {
		return
	}
	l.log(core.TraceLevel, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a debug message with formatting
func (l Logger) Debugf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.DebugLevel) {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l Logger) Infof(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.InfoLevel) {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting
func (l Logger) Warnf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.WarnLevel) {
		return
	}
	l.log(core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l Logger) Errorf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.ErrorLevel) {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a fatal message with formatting. It does not exit the program.
func (l Logger) Fatalf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.FatalLevel) {
		return
	}
	l.log(core.FatalLevel, fmt.Sprintf(format, args...), nil)
}
