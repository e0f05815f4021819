package logger

import (
	"os"
	"sync"

	"github.com/philipp01105/hlog/appender/consoleappender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
)

var (
	defaultOnce sync.Once
	defaultH    *Hierarchy
)

// DefaultHierarchy returns the process-wide hierarchy, creating it on
// first use. Programs using it should call Shutdown before exiting:
//
//	func main() {
//		defer logger.Shutdown()
//		...
//	}
func DefaultHierarchy() *Hierarchy {
	defaultOnce.Do(func() {
		defaultH = NewHierarchy()
	})
	return defaultH
}

// GetInstance returns the named logger of the default hierarchy.
func GetInstance(name string) Logger {
	return DefaultHierarchy().GetInstance(name)
}

// GetInstanceWithFactory returns the named logger of the default
// hierarchy, creating it with f if it does not exist.
func GetInstanceWithFactory(name string, f Factory) Logger {
	return DefaultHierarchy().GetInstanceWithFactory(name, f)
}

// Root returns the root logger of the default hierarchy.
func Root() Logger {
	return DefaultHierarchy().Root()
}

// Exists reports whether the default hierarchy has a logger called name.
func Exists(name string) bool {
	return DefaultHierarchy().Exists(name)
}

// CurrentLoggers returns the loggers of the default hierarchy, root excluded.
func CurrentLoggers() []Logger {
	return DefaultHierarchy().CurrentLoggers()
}

// Shutdown flushes and closes every appender of the default hierarchy.
func Shutdown() error {
	return DefaultHierarchy().Shutdown()
}

// BasicConfig attaches a text console appender writing to stdout to the
// root of h, or of the default hierarchy when h is nil.
func BasicConfig(h *Hierarchy) {
	if h == nil {
		h = DefaultHierarchy()
	}
	h.Root().AddAppender(consoleappender.New(consoleappender.Config{
		Name:      "console",
		Writer:    os.Stdout,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	}))
}

// Package-level convenience functions logging through the root of the
// default hierarchy.

// Debug logs a debug message on the root logger
func Debug(msg string, fields ...core.Field) {
	Root().Debug(msg, fields...)
}

// Info logs an info message on the root logger
func Info(msg string, fields ...core.Field) {
	Root().Info(msg, fields...)
}

// Warn logs a warning message on the root logger
func Warn(msg string, fields ...core.Field) {
	Root().Warn(msg, fields...)
}

// Error logs an error message on the root logger
func Error(msg string, fields ...core.Field) {
	Root().Error(msg, fields...)
}
