// Package appender defines the Appender contract that every log output
// implements, and the List type that loggers and composite appenders use
// to hold their appenders.
//
// An Appender receives entries through Append and releases its
// resources in Close. Close is idempotent and a closed appender drops
// entries silently, because the same appender can be attached to many
// loggers and any of them may reach Close first. Embedding Base gives an
// implementation the name, threshold and closed-flag bookkeeping.
//
// List is copy-on-write. Dispatch takes a snapshot under a read lock and
// releases the lock before calling any appender, so slow I/O in one
// appender never blocks attach or detach on the same logger, and a
// concurrent detach never disturbs an in-flight dispatch.
//
// Composite appenders (Multi here, AsyncAppender in asyncappender) are
// themselves Attachable. Their nested appenders are closed by
// CloseNestedAppenders, deepest first, before the composites are
// closed. CloseSet keeps that walk closing each appender only once.
//
// Built-in appenders:
//
//   - Multi forwards synchronously to nested appenders.
//   - Null discards everything.
//   - consoleappender writes formatted entries to stdout, stderr or any io.Writer.
//   - fileappender writes to a file with lumberjack-based rotation.
//   - asyncappender queues entries for a background goroutine with a
//     per-level OverflowPolicy.
//   - zapappender forwards entries to a zapcore.Core.
package appender
