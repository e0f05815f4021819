package appender

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"

	"github.com/philipp01105/hlog/core"
)

// List is an ordered, concurrency-safe collection of appenders. It
// implements Attachable and is embedded by logger nodes and composite
// appenders. The zero value is an empty list ready for use.
//
// The backing slice is copy-on-write: mutations install a new slice,
// so a snapshot taken by a dispatching goroutine stays valid without
// holding the lock while appenders run.
type List struct {
	mu        sync.RWMutex
	appenders []Appender
}

// AddAppender appends a to the end of the list. Adding an appender that
// is already present is a no-op. If a named appender with the same name
// is present it is replaced in place; the replaced appender is not
// closed.
func (l *List) AddAppender(a Appender) {
	if a == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	name := a.Name()
	for i, x := range l.appenders {
		if same(x, a) {
			return
		}
		if name != "" && x.Name() == name {
			next := make([]Appender, len(l.appenders))
			copy(next, l.appenders)
			next[i] = a
			l.appenders = next
			return
		}
	}

	next := make([]Appender, len(l.appenders), len(l.appenders)+1)
	copy(next, l.appenders)
	l.appenders = append(next, a)
}

// GetAllAppenders returns a copy of the attached appenders in
// attachment order.
func (l *List) GetAllAppenders() []Appender {
	snap := l.Snapshot()
	if len(snap) == 0 {
		return nil
	}
	out := make([]Appender, len(snap))
	copy(out, snap)
	return out
}

// GetAppender returns the first appender with the given name, or nil.
func (l *List) GetAppender(name string) Appender {
	for _, a := range l.Snapshot() {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// RemoveAllAppenders detaches every appender without closing them.
func (l *List) RemoveAllAppenders() {
	l.mu.Lock()
	l.appenders = nil
	l.mu.Unlock()
}

// RemoveAppender detaches a without closing it.
func (l *List) RemoveAppender(a Appender) {
	if a == nil {
		return
	}
	l.remove(func(x Appender) bool { return same(x, a) })
}

// RemoveAppenderByName detaches every appender called name without
// closing them.
func (l *List) RemoveAppenderByName(name string) {
	l.remove(func(x Appender) bool { return x.Name() == name })
}

func (l *List) remove(match func(Appender) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var next []Appender
	for _, x := range l.appenders {
		if !match(x) {
			next = append(next, x)
		}
	}
	l.appenders = next
}

// Len returns the number of attached appenders.
func (l *List) Len() int {
	return len(l.Snapshot())
}

// Snapshot returns the current backing slice. Callers must treat it as
// read-only.
func (l *List) Snapshot() []Appender {
	l.mu.RLock()
	s := l.appenders
	l.mu.RUnlock()
	return s
}

// AppendLoop hands e to every attached appender in order. It returns the
// number of appenders invoked and the combined errors of those that
// failed; a failing or panicking appender does not stop the loop.
func (l *List) AppendLoop(e *core.Entry) (int, error) {
	return AppendAll(l.Snapshot(), e)
}

// AppendAll is AppendLoop over a snapshot taken earlier.
func AppendAll(snap []Appender, e *core.Entry) (int, error) {
	var errs error
	for _, a := range snap {
		if err := safeAppend(a, e); err != nil {
			errs = multierr.Append(errs, &Error{Name: a.Name(), Op: "append", Err: err})
		}
	}
	return len(snap), errs
}

// CloseNestedAppenders closes the appenders nested inside every attached
// Attachable appender, deepest first. The attached appenders themselves
// stay open.
func (l *List) CloseNestedAppenders() error {
	cs := NewCloseSet()
	cs.CloseNested(l)
	return cs.Err()
}

func safeAppend(a Appender, e *core.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Append(e)
}

// same compares appenders by identity without panicking on
// non-comparable dynamic types.
func same(a, b Appender) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
