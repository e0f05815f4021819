package logger

import (
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
)

// Builder provides a fluent API for building Hierarchy instances
type Builder struct {
	rootLevel    Level
	reporter     diag.Reporter
	factory      Factory
	caller       bool
	callerSkip   int
	goroutineID  bool
	closeOnReset bool
	coarseClock  bool
}

// NewBuilder creates a new hierarchy builder
func NewBuilder() *Builder {
	return &Builder{
		rootLevel:  core.DebugLevel,
		callerSkip: 3,
	}
}

// WithRootLevel sets the root level. The root is reset to it by
// ResetConfiguration. NotSetLevel is ignored.
func (b *Builder) WithRootLevel(level Level) *Builder {
	if level != core.NotSetLevel {
		b.rootLevel = level
	}
	return b
}

// WithReporter sets the receiver of internal diagnostics
// (default: diag.Default()).
func (b *Builder) WithReporter(r diag.Reporter) *Builder {
	b.reporter = r
	return b
}

// WithFactory sets the factory used for names requested without an
// explicit one and for synthesized ancestors.
func (b *Builder) WithFactory(f Factory) *Builder {
	b.factory = f
	return b
}

// WithCaller enables caller information on the Logger convenience methods
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.caller = enabled
	return b
}

// WithGoroutineID records the originating goroutine id on every entry
func (b *Builder) WithGoroutineID(enabled bool) *Builder {
	b.goroutineID = enabled
	return b
}

// WithCloseOnReset makes ResetConfiguration close the appenders it
// detaches instead of only detaching them.
func (b *Builder) WithCloseOnReset(enabled bool) *Builder {
	b.closeOnReset = enabled
	return b
}

// WithCoarseClock stamps entries from core.CoarseNow, a clock refreshed
// every 500µs, instead of calling time.Now for each entry.
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarseClock = enabled
	return b
}

// Build creates the Hierarchy with its root logger.
func (b *Builder) Build() *Hierarchy {
	h := &Hierarchy{
		nodes:        make(map[string]Node),
		factory:      b.factory,
		reporter:     b.reporter,
		rootLevel:    b.rootLevel,
		caller:       b.caller,
		callerSkip:   b.callerSkip,
		goroutineID:  b.goroutineID,
		closeOnReset: b.closeOnReset,
		coarseClock:  b.coarseClock,
	}
	if h.factory == nil {
		h.factory = DefaultFactory
	}
	if h.reporter == nil {
		h.reporter = diag.Default()
	}
	if h.coarseClock {
		core.StartCoarseClock()
	}
	h.levelGen.Store(1)
	h.disable.Store(int32(core.NotSetLevel))

	root := NewLoggerImpl(RootName, h)
	root.isRoot = true
	root.level.Store(int32(b.rootLevel))
	h.root = root
	return h
}
