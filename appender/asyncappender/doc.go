// Package asyncappender provides a composite appender that hands
// entries to its nested appenders on a background goroutine.
//
// Append clones the entry into a bounded queue and returns. When the
// queue is full the per-level OverflowPolicy decides whether the entry
// is dropped, replaces the oldest queued entry, or blocks the caller up
// to BlockTimeout before being forwarded synchronously.
//
// Flush waits until everything queued before the call has been
// forwarded. Close drains the queue (bounded by DrainTimeout) and stops
// the worker; the nested appenders are left open, since logger shutdown
// closes them separately.
package asyncappender
