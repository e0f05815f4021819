package logger

import (
	"sync/atomic"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// Node is one vertex of a Hierarchy: a named logger with an optional
// level, an additivity flag and its own appender list.
//
// Node is sealed: the only way to implement it is to embed *LoggerImpl.
// A Factory can return such a type to override ForcedLog or
// CallAppenders for the loggers it creates.
type Node interface {
	appender.Attachable

	Name() string
	Hierarchy() *Hierarchy
	// Parent returns nil for the root.
	Parent() Node

	LogLevel() Level
	SetLogLevel(level Level)
	ChainedLogLevel() Level
	IsEnabledFor(level Level) bool

	Additivity() bool
	SetAdditivity(additive bool)

	Log(level Level, msg string, caller core.CallerInfo, fields []core.Field)
	ForcedLog(level Level, msg string, caller core.CallerInfo, fields []core.Field)
	CallAppenders(e *core.Entry)
	CloseNestedAppenders() error

	impl() *LoggerImpl
}

// LoggerImpl is the default Node.
type LoggerImpl struct {
	list appender.List

	name   string
	h      *Hierarchy
	parent *LoggerImpl // nil only for the root; fixed at insertion
	self   Node        // outermost node embedding this LoggerImpl
	isRoot bool

	level       atomic.Int32
	nonAdditive atomic.Bool
	// cached holds generation<<8 | uint8(effective level). Generation 0
	// is never used by a Hierarchy, so the zero value is a miss.
	cached atomic.Uint64
}

// NewLoggerImpl creates a node without a level that inherits from its
// ancestors and is additive. Factories call it; the hierarchy links the
// parent when it inserts the node.
func NewLoggerImpl(name string, h *Hierarchy) *LoggerImpl {
	l := &LoggerImpl{name: name, h: h}
	l.self = l
	l.level.Store(int32(core.NotSetLevel))
	return l
}

func (l *LoggerImpl) impl() *LoggerImpl { return l }

// Name returns the full dotted name.
func (l *LoggerImpl) Name() string { return l.name }

// Hierarchy returns the owning hierarchy.
func (l *LoggerImpl) Hierarchy() *Hierarchy { return l.h }

// Parent returns the parent node, or nil for the root.
func (l *LoggerImpl) Parent() Node {
	if l.parent == nil {
		return nil
	}
	return l.parent.self
}

// LogLevel returns the explicitly set level, NotSetLevel if inherited.
func (l *LoggerImpl) LogLevel() Level {
	return Level(l.level.Load())
}

// SetLogLevel sets the level. NotSetLevel restores inheritance. The root
// always keeps an explicit level, so setting it to NotSetLevel is
// reported and ignored.
func (l *LoggerImpl) SetLogLevel(level Level) {
	defer l.h.unlock(l.h.lock())
	l.setLogLevel(level)
}

func (l *LoggerImpl) setLogLevel(level Level) {
	if l.isRoot && level == core.NotSetLevel {
		l.h.reporter.Warn("ignoring NOTSET level for the root logger")
		return
	}
	l.level.Store(int32(level))
	l.h.levelGen.Add(1)
}

// ChainedLogLevel returns the effective level: the level of the nearest
// ancestor, this node included, that has one. The result is cached
// until any level in the hierarchy changes.
func (l *LoggerImpl) ChainedLogLevel() Level {
	gen := l.h.levelGen.Load()
	if c := l.cached.Load(); c>>8 == gen {
		return Level(int8(uint8(c)))
	}
	level := core.DebugLevel
	for n := l; n != nil; n = n.parent {
		if lv := Level(n.level.Load()); lv != core.NotSetLevel {
			level = lv
			break
		}
	}
	l.cached.Store(gen<<8 | uint64(uint8(level)))
	return level
}

// IsEnabledFor reports whether an event at level would be logged.
func (l *LoggerImpl) IsEnabledFor(level Level) bool {
	var enabled bool
	l.h.stable(func() {
		enabled = !l.h.IsDisabled(level) && level >= l.ChainedLogLevel()
	})
	return enabled
}

// Additivity reports whether events logged here also reach the
// appenders of the ancestors.
func (l *LoggerImpl) Additivity() bool {
	return !l.nonAdditive.Load()
}

// SetAdditivity sets the additivity flag.
func (l *LoggerImpl) SetAdditivity(additive bool) {
	defer l.h.unlock(l.h.lock())
	l.nonAdditive.Store(!additive)
}

// Log dispatches the event if level is enabled.
func (l *LoggerImpl) Log(level Level, msg string, caller core.CallerInfo, fields []core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.self.ForcedLog(level, msg, caller, fields)
}

// ForcedLog builds an entry and dispatches it without checking the level.
func (l *LoggerImpl) ForcedLog(level Level, msg string, caller core.CallerInfo, fields []core.Field) {
	e := core.GetEntry()
	e.Time = l.h.now()
	e.Level = level
	e.LoggerName = l.name
	e.Message = msg
	e.Caller = caller
	if len(fields) > 0 {
		e.Fields = append(e.Fields, fields...)
	}
	if l.h.goroutineID {
		e.Goroutine = core.GoroutineID()
	}
	l.self.CallAppenders(e)
	core.PutEntry(e)
}

// CallAppenders hands e to the appenders of this node, then of each
// ancestor in turn, stopping after the first node that is not additive.
// Appender failures are reported and never stop the walk.
func (l *LoggerImpl) CallAppenders(e *core.Entry) {
	var buf [8][]appender.Appender
	chain := buf[:0]
	l.h.stable(func() {
		chain = chain[:0]
		for n := l; n != nil; n = n.parent {
			chain = append(chain, n.list.Snapshot())
			if n.nonAdditive.Load() {
				break
			}
		}
	})

	writes := 0
	for _, snap := range chain {
		c, err := appender.AppendAll(snap, e)
		writes += c
		if err != nil {
			l.h.reportAppendErrors(l.name, err)
		}
	}
	if writes == 0 {
		l.h.noAppenders(l.name)
	}
}

// AddAppender attaches a. See appender.List.AddAppender.
func (l *LoggerImpl) AddAppender(a appender.Appender) {
	defer l.h.unlock(l.h.lock())
	l.list.AddAppender(a)
}

// GetAllAppenders returns the attached appenders in attachment order.
func (l *LoggerImpl) GetAllAppenders() []appender.Appender {
	return l.list.GetAllAppenders()
}

// GetAppender returns the first attached appender called name, or nil.
func (l *LoggerImpl) GetAppender(name string) appender.Appender {
	return l.list.GetAppender(name)
}

// RemoveAllAppenders detaches every appender without closing them.
func (l *LoggerImpl) RemoveAllAppenders() {
	defer l.h.unlock(l.h.lock())
	l.list.RemoveAllAppenders()
}

// RemoveAppender detaches a without closing it.
func (l *LoggerImpl) RemoveAppender(a appender.Appender) {
	defer l.h.unlock(l.h.lock())
	l.list.RemoveAppender(a)
}

// RemoveAppenderByName detaches the appenders called name without
// closing them.
func (l *LoggerImpl) RemoveAppenderByName(name string) {
	defer l.h.unlock(l.h.lock())
	l.list.RemoveAppenderByName(name)
}

// CloseNestedAppenders closes the appenders nested inside composite
// appenders attached here. The attached appenders stay open.
func (l *LoggerImpl) CloseNestedAppenders() error {
	return l.list.CloseNestedAppenders()
}
