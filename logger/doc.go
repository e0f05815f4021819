// Package logger is the public API of hlog: a hierarchy of named
// loggers that route entries to appenders.
//
// Logger names are dotted paths. Requesting "svc.db" creates "svc" and
// "svc.db" under the root if they do not exist yet:
//
//	h := logger.NewHierarchy()
//	h.Root().AddAppender(console)
//	db := h.GetInstance("svc.db")
//	db.Info("connected", logger.Int("pool", 4))
//
// A logger without its own level inherits the level of its nearest
// ancestor that has one; the root always has one. The resolved level is
// cached per logger and invalidated by any level change, so a disabled
// call costs a few atomic loads and never allocates.
//
// An entry logged on a logger goes to that logger's appenders, then to
// its parent's, and so on up to the root, stopping after the first
// logger whose additivity is false. Appenders are called in the order
// they were attached, without any lock held. A failing or panicking
// appender is reported through the hierarchy's diag.Reporter and does
// not stop the others.
//
// Reconfiguration that must appear atomic to concurrent log calls holds
// the hierarchy lock:
//
//	err := h.WithLock(func(l *logger.Locker) error {
//		l.ResetConfiguration()
//		l.AddAppender(l.GetInstance("svc"), file)
//		return nil
//	})
//
// Shutdown flushes and closes every appender once, composites' nested
// appenders first, and detaches them all. The package-level functions
// work on a default hierarchy created on first use.
package logger
