// Package formatter defines how log entries are serialized into bytes
// by appenders that write text (console, file).
//
// It exposes three interfaces: Formatter, which returns a []byte,
// WriterFormatter, which writes directly to an io.Writer, and
// BufferFormatter, which formats into a caller-owned buffer. Appenders
// check for the optional interfaces at construction time and prefer
// them when available.
//
// Both built-in formatters (TextFormatter and JSONFormatter) implement
// all three. They render the logger name of the entry, so output from
// different branches of the logger hierarchy stays distinguishable in a
// shared sink. They use a pooled bytes.Buffer internally and rely on
// Go's Append-style functions (time.AppendFormat, strconv.AppendInt) to
// avoid per-call allocations.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
