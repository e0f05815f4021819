// Package consoleappender writes formatted entries to standard output,
// standard error or any io.Writer.
//
// Each entry is formatted and written with a single Write call, so
// output is flushed immediately and lines from concurrent loggers never
// interleave.
package consoleappender
