package appender

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/hlog/core"
)

// Appender is an output target for log entries. One appender may be
// attached to several loggers at once, so implementations must be safe
// for concurrent use.
type Appender interface {
	// Name identifies the appender within the list it is attached to.
	Name() string

	// Append consumes one entry. The entry is owned by the caller and
	// must not be retained after Append returns; use Entry.Clone to keep
	// a copy. A closed appender discards the entry and returns nil.
	Append(entry *core.Entry) error

	// Close releases the appender's resources. It is safe to call more
	// than once.
	Close() error
}

// Flusher is implemented by appenders that buffer entries.
type Flusher interface {
	// Flush blocks until buffered entries have been written.
	Flush() error
}

// Attachable is a holder of appenders. Loggers are Attachable, and so
// are composite appenders that forward to nested appenders.
type Attachable interface {
	AddAppender(a Appender)
	GetAllAppenders() []Appender
	GetAppender(name string) Appender
	RemoveAllAppenders()
	RemoveAppender(a Appender)
	RemoveAppenderByName(name string)
}

// Error records a failure of a single appender.
type Error struct {
	Name string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("appender %q: %s: %v", e.Name, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Base carries the state common to appender implementations: the name,
// an optional threshold level and the closed flag. Embed it and call
// Accept at the top of Append and MarkClosed at the top of Close.
type Base struct {
	mu        sync.RWMutex
	name      string
	threshold atomic.Int32 // offset from core.NotSetLevel, so zero accepts everything
	closed    atomic.Bool
}

// Name returns the appender name.
func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// SetName renames the appender. Renaming an appender that is already
// attached does not reorder or deduplicate the lists holding it.
func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

// Threshold returns the minimum level the appender accepts.
func (b *Base) Threshold() core.Level {
	return core.Level(int32(core.NotSetLevel) + b.threshold.Load())
}

// SetThreshold sets the minimum level the appender accepts.
func (b *Base) SetThreshold(l core.Level) {
	b.threshold.Store(int32(l) - int32(core.NotSetLevel))
}

// IsClosed reports whether Close has been called.
func (b *Base) IsClosed() bool {
	return b.closed.Load()
}

// MarkClosed flips the closed flag. It returns true only for the first
// call, so Close can release resources exactly once.
func (b *Base) MarkClosed() bool {
	return b.closed.CompareAndSwap(false, true)
}

// Accept reports whether the appender is open and the entry passes the
// threshold.
func (b *Base) Accept(e *core.Entry) bool {
	return !b.closed.Load() && e.Level >= b.Threshold()
}
