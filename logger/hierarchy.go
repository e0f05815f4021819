package logger

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
)

// RootName is the name of the root logger. GetInstance(RootName) does
// not return the root: it returns an ordinary child of the root that
// happens to be called "root".
const RootName = "root"

// Hierarchy owns a tree of loggers keyed by dotted name.
//
// Log calls never take the hierarchy lock. Structural changes (logger
// creation, level and additivity changes, attaching and detaching
// appenders, reset and shutdown) do, and Lock holds it across a batch
// of them. While a batch is open, log calls from other goroutines wait
// for it to end before reading levels and appender lists, so they see
// the configuration from before the batch or after it.
type Hierarchy struct {
	mu    sync.RWMutex
	owner atomic.Uint64 // goroutine holding mu for writing, 0 if none
	nodes map[string]Node
	root  *LoggerImpl

	factory      Factory
	reporter     diag.Reporter
	rootLevel    Level
	caller       bool
	callerSkip   int
	goroutineID  bool
	closeOnReset bool
	coarseClock  bool

	levelGen atomic.Uint64
	// batchSeq is odd while a Locker batch is open; batchDone is closed
	// when that batch ends.
	batchSeq  atomic.Uint64
	batchDone atomic.Pointer[chan struct{}]
	disable   atomic.Int32
	warned    sync.Map // logger name -> struct{}
	closed    atomic.Bool
}

// NewHierarchy returns a Hierarchy with default settings.
func NewHierarchy() *Hierarchy {
	return NewBuilder().Build()
}

// held reports whether the calling goroutine holds mu for writing.
func (h *Hierarchy) held() bool {
	o := h.owner.Load()
	return o != 0 && o == core.GoroutineID()
}

// lock acquires mu for writing unless the calling goroutine already
// holds it. Pass the result to unlock.
func (h *Hierarchy) lock() bool {
	if h.held() {
		return false
	}
	h.mu.Lock()
	h.owner.Store(core.GoroutineID())
	return true
}

func (h *Hierarchy) unlock(acquired bool) {
	if acquired {
		h.owner.Store(0)
		h.mu.Unlock()
	}
}

func (h *Hierarchy) rlock() bool {
	if h.held() {
		return false
	}
	h.mu.RLock()
	return true
}

func (h *Hierarchy) runlock(acquired bool) {
	if acquired {
		h.mu.RUnlock()
	}
}

// beginBatch opens a Locker batch. mu must be held for writing.
func (h *Hierarchy) beginBatch() {
	done := make(chan struct{})
	h.batchDone.Store(&done)
	h.batchSeq.Add(1)
}

// endBatch closes the batch opened by beginBatch.
func (h *Hierarchy) endBatch() {
	h.batchSeq.Add(1)
	close(*h.batchDone.Load())
}

// stable runs read until a run completes without overlapping a Locker
// batch. read must have no side effects beyond its own results. The
// goroutine holding the batch reads the current state directly.
func (h *Hierarchy) stable(read func()) {
	for {
		seq := h.batchSeq.Load()
		if seq&1 == 1 {
			if h.held() {
				read()
				return
			}
			if done := h.batchDone.Load(); done != nil {
				<-*done
			}
			continue
		}
		read()
		if h.batchSeq.Load() == seq {
			return
		}
	}
}

// Reporter returns the receiver of internal diagnostics.
func (h *Hierarchy) Reporter() diag.Reporter {
	return h.reporter
}

// Root returns the root logger.
func (h *Hierarchy) Root() Logger {
	if h.closed.Load() {
		return Logger{}
	}
	return Logger{node: h.root.self}
}

// GetInstance returns the logger called name, creating it and any
// missing ancestors with the hierarchy's factory. Concurrent calls for
// the same name return the same node. An empty name returns the root.
func (h *Hierarchy) GetInstance(name string) Logger {
	return h.GetInstanceWithFactory(name, nil)
}

// GetInstanceWithFactory is GetInstance, creating the logger itself with
// f if it does not exist yet. Missing ancestors are created with the
// hierarchy's factory. A nil f selects the hierarchy's factory.
func (h *Hierarchy) GetInstanceWithFactory(name string, f Factory) Logger {
	if h.closed.Load() {
		h.reporter.Warn("logger requested from a closed hierarchy", zap.String("logger", name))
		return Logger{}
	}
	if name == "" {
		return h.Root()
	}

	acq := h.rlock()
	n, ok := h.nodes[name]
	h.runlock(acq)
	if ok {
		return Logger{node: n}
	}

	defer h.unlock(h.lock())
	return Logger{node: h.getInstance(name, f)}
}

// getInstance looks up or creates name. mu must be held for writing.
func (h *Hierarchy) getInstance(name string, f Factory) Node {
	if n, ok := h.nodes[name]; ok {
		return n
	}
	if f == nil {
		f = h.factory
	}

	parent := h.root
	for i := 1; i < len(name); i++ {
		if name[i] != '.' {
			continue
		}
		prefix := name[:i]
		p, ok := h.nodes[prefix]
		if !ok {
			p = h.insert(prefix, h.factory, parent)
		}
		parent = p.impl()
	}
	return h.insert(name, f, parent)
}

func (h *Hierarchy) insert(name string, f Factory, parent *LoggerImpl) Node {
	n := h.makeNode(name, f)
	li := n.impl()
	li.parent = parent
	li.self = n
	h.nodes[name] = n
	return n
}

// makeNode runs the factory, falling back to DefaultFactory when the
// factory returns nil or a node for another name or hierarchy.
func (h *Hierarchy) makeNode(name string, f Factory) Node {
	n := f.MakeNewLoggerInstance(name, h)
	switch {
	case n == nil || n.impl() == nil:
		h.reporter.Error("logger factory returned no node", ErrInvalidHandle, zap.String("logger", name))
	case n.impl().name != name || n.impl().h != h:
		h.reporter.Error("logger factory returned a foreign node", ErrInvalidHandle,
			zap.String("logger", name), zap.String("got", n.impl().name))
	default:
		return n
	}
	return DefaultFactory.MakeNewLoggerInstance(name, h)
}

// Exists reports whether a logger called name has been created.
func (h *Hierarchy) Exists(name string) bool {
	acq := h.rlock()
	defer h.runlock(acq)
	_, ok := h.nodes[name]
	return ok
}

// CurrentLoggers returns every logger except the root, sorted by name.
func (h *Hierarchy) CurrentLoggers() []Logger {
	if h.closed.Load() {
		return nil
	}
	acq := h.rlock()
	out := make([]Logger, 0, len(h.nodes))
	for _, n := range h.nodes {
		out = append(out, Logger{node: n})
	}
	h.runlock(acq)

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// allNodes returns the root followed by every other node. mu must be held.
func (h *Hierarchy) allNodes() []*LoggerImpl {
	out := make([]*LoggerImpl, 0, len(h.nodes)+1)
	out = append(out, h.root)
	for _, n := range h.nodes {
		out = append(out, n.impl())
	}
	return out
}

// Disable turns off every level at or below level across the whole
// hierarchy, regardless of logger levels.
func (h *Hierarchy) Disable(level Level) {
	h.disable.Store(int32(level))
}

// DisableAll turns off every level.
func (h *Hierarchy) DisableAll() { h.Disable(core.FatalLevel) }

// DisableDebug turns off TRACE and DEBUG.
func (h *Hierarchy) DisableDebug() { h.Disable(core.DebugLevel) }

// DisableInfo turns off TRACE, DEBUG and INFO.
func (h *Hierarchy) DisableInfo() { h.Disable(core.InfoLevel) }

// EnableAll clears the Disable threshold.
func (h *Hierarchy) EnableAll() { h.Disable(core.NotSetLevel) }

// IsDisabled reports whether level is turned off by Disable.
func (h *Hierarchy) IsDisabled(level Level) bool {
	d := Level(h.disable.Load())
	return d != core.NotSetLevel && level <= d
}

// Shutdown flushes and closes every appender in the hierarchy and
// detaches them. Appenders nested in composites are closed before any
// appender attached directly to a logger, and every appender is closed
// once even when it is shared. Close errors are reported and returned.
func (h *Hierarchy) Shutdown() error {
	defer h.unlock(h.lock())
	return h.shutdown()
}

func (h *Hierarchy) shutdown() error {
	nodes := h.allNodes()

	var attached []appender.Appender
	for _, n := range nodes {
		attached = append(attached, n.list.GetAllAppenders()...)
	}
	errs := appender.FlushAll(attached)

	cs := appender.NewCloseSet()
	for _, n := range nodes {
		cs.CloseNested(&n.list)
	}
	for _, a := range attached {
		cs.Close(a)
	}
	for _, n := range nodes {
		n.list.RemoveAllAppenders()
	}

	errs = multierr.Append(errs, cs.Err())
	for _, err := range multierr.Errors(errs) {
		h.reporter.Error("shutdown", err)
	}
	return errs
}

// ResetConfiguration detaches every appender, gives every logger but the
// root NotSetLevel and additivity, resets the root to its initial level
// and clears the Disable threshold. Detached appenders are closed only
// if the hierarchy was built WithCloseOnReset.
func (h *Hierarchy) ResetConfiguration() {
	defer h.unlock(h.lock())
	h.resetConfiguration()
}

func (h *Hierarchy) resetConfiguration() {
	var detached []appender.Appender
	for _, n := range h.allNodes() {
		detached = append(detached, n.list.GetAllAppenders()...)
		n.list.RemoveAllAppenders()
		n.nonAdditive.Store(false)
		if n.isRoot {
			n.level.Store(int32(h.rootLevel))
		} else {
			n.level.Store(int32(core.NotSetLevel))
		}
	}
	h.disable.Store(int32(core.NotSetLevel))
	h.levelGen.Add(1)

	if h.closeOnReset && len(detached) > 0 {
		cs := appender.NewCloseSet()
		cs.CloseAll(detached)
		for _, err := range multierr.Errors(cs.Err()) {
			h.reporter.Error("reset", err)
		}
	}
}

// Close shuts the hierarchy down. Afterwards every Logger obtained from
// it is invalid and GetInstance returns invalid Loggers.
func (h *Hierarchy) Close() error {
	defer h.unlock(h.lock())
	if h.closed.Load() {
		return ErrHierarchyClosed
	}
	err := h.shutdown()
	h.closed.Store(true)
	return err
}

// IsClosed reports whether Close has been called.
func (h *Hierarchy) IsClosed() bool {
	return h.closed.Load()
}

func (h *Hierarchy) reportAppendErrors(logger string, err error) {
	for _, e := range multierr.Errors(err) {
		h.reporter.Error("appender failed", e, zap.String("logger", logger))
	}
}

func (h *Hierarchy) now() time.Time {
	if h.coarseClock {
		return core.CoarseNow()
	}
	return time.Now()
}

func (h *Hierarchy) noAppenders(logger string) {
	if _, loaded := h.warned.LoadOrStore(logger, struct{}{}); loaded {
		return
	}
	h.reporter.Warn("no appenders could be found for logger", zap.String("logger", logger))
}
