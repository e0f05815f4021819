package logger

import (
	"github.com/philipp01105/hlog/appender"
)

// Locker holds the structural lock of a Hierarchy. While it is held,
// other goroutines block on logger creation, level and additivity
// changes, appender attachment, reset and shutdown. Their log calls
// wait until the Locker is released, then see the whole batch of
// changes. The holding goroutine may keep logging and calling the
// ordinary Hierarchy and Logger methods, or use the Locker's own.
//
//	l := h.Lock()
//	defer l.Unlock()
//	l.ResetConfiguration()
//	l.AddAppender(l.GetInstance("svc"), a)
//
// A Locker must be released by the goroutine that acquired it. Its
// methods panic with ErrLockReleased once it has been.
type Locker struct {
	h        *Hierarchy
	acquired bool
	released bool
}

// Lock acquires the structural lock. Locking again from the goroutine
// that holds it returns a Locker whose Unlock does nothing.
func (h *Hierarchy) Lock() *Locker {
	l := &Locker{h: h, acquired: h.lock()}
	if l.acquired {
		h.beginBatch()
	}
	return l
}

// WithLock runs fn while holding the structural lock. The lock is
// released however fn returns, including by panic.
func (h *Hierarchy) WithLock(fn func(l *Locker) error) error {
	l := h.Lock()
	defer l.Unlock()
	return fn(l)
}

// Unlock releases the lock. Calling it again is a no-op.
func (l *Locker) Unlock() {
	if l.released {
		return
	}
	l.released = true
	if l.acquired {
		l.h.endBatch()
	}
	l.h.unlock(l.acquired)
}

func (l *Locker) mustHold() {
	if l.released {
		panic(ErrLockReleased)
	}
}

// Hierarchy returns the locked hierarchy.
func (l *Locker) Hierarchy() *Hierarchy {
	return l.h
}

// GetInstance is Hierarchy.GetInstance under the held lock.
func (l *Locker) GetInstance(name string) Logger {
	return l.GetInstanceWithFactory(name, nil)
}

// GetInstanceWithFactory is Hierarchy.GetInstanceWithFactory under the
// held lock.
func (l *Locker) GetInstanceWithFactory(name string, f Factory) Logger {
	l.mustHold()
	if l.h.closed.Load() {
		return Logger{}
	}
	if name == "" {
		return l.h.Root()
	}
	return Logger{node: l.h.getInstance(name, f)}
}

// ResetConfiguration is Hierarchy.ResetConfiguration under the held lock.
func (l *Locker) ResetConfiguration() {
	l.mustHold()
	l.h.resetConfiguration()
}

// SetLogLevel sets the level of lg.
func (l *Locker) SetLogLevel(lg Logger, level Level) {
	l.mustHold()
	lg.mustImpl().setLogLevel(level)
}

// SetAdditivity sets the additivity of lg.
func (l *Locker) SetAdditivity(lg Logger, additive bool) {
	l.mustHold()
	lg.mustImpl().nonAdditive.Store(!additive)
}

// AddAppender attaches a to lg.
func (l *Locker) AddAppender(lg Logger, a appender.Appender) {
	l.mustHold()
	lg.mustImpl().list.AddAppender(a)
}

// RemoveAppender detaches a from lg without closing it.
func (l *Locker) RemoveAppender(lg Logger, a appender.Appender) {
	l.mustHold()
	lg.mustImpl().list.RemoveAppender(a)
}

// RemoveAllAppenders detaches every appender of lg without closing them.
func (l *Locker) RemoveAllAppenders(lg Logger) {
	l.mustHold()
	lg.mustImpl().list.RemoveAllAppenders()
}
