package consoleappender

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
)

// Target selects a standard stream.
type Target int

const (
	// Stdout writes to os.Stdout.
	Stdout Target = iota
	// Stderr writes to os.Stderr.
	Stderr
)

// ParseTarget parses "stdout" or "stderr".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stdout":
		return Stdout, nil
	case "stderr":
		return Stderr, nil
	default:
		return Stdout, fmt.Errorf("unknown console target %q", s)
	}
}

// Config holds configuration for the console appender
type Config struct {
	// Name of the appender
	Name string
	// Target stream, used when Writer is nil (default: Stdout)
	Target Target
	// Writer overrides Target
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// ConcurrentWriter indicates the Writer supports concurrent Write calls.
	// Automatically detected for io.Discard and *os.File.
	ConcurrentWriter bool
}

// lockedWriter wraps an io.Writer with the appender's mutex, acquiring
// the lock only for Write calls.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	n, err = lw.w.Write(p)
	lw.mu.Unlock()
	return
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the appender to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// Appender writes entries to a console stream.
type Appender struct {
	appender.Base

	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	bufferFormatter formatter.BufferFormatter
	concurrentSafe  bool
	stats           *appender.Stats

	mu         sync.Mutex // protects syncBuf and serializes writes
	lw         lockedWriter
	syncBuf    bytes.Buffer
	parBufPool sync.Pool
}

// New creates a console appender.
func New(cfg Config) *Appender {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
		if cfg.Target == Stderr {
			w = os.Stderr
		}
	}
	f := cfg.Formatter
	if f == nil {
		f = formatter.NewTextFormatter(formatter.Config{})
	}

	a := &Appender{
		writer:         w,
		formatter:      f,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(w),
		stats:          appender.NewStats(),
	}
	a.SetName(cfg.Name)
	a.writerFormatter, _ = f.(formatter.WriterFormatter)
	a.bufferFormatter, _ = f.(formatter.BufferFormatter)
	a.lw = lockedWriter{mu: &a.mu, w: w}

	if a.bufferFormatter != nil {
		a.syncBuf.Grow(256)
		a.parBufPool = sync.Pool{
			New: func() interface{} {
				b := new(bytes.Buffer)
				b.Grow(256)
				return b
			},
		}
	}
	return a
}

// Append formats and writes the entry.
// Uses TryLock to format into the appender-owned buffer when uncontended.
// Under contention it formats into a pooled buffer outside the lock and
// takes the lock only for the write.
func (a *Appender) Append(entry *core.Entry) error {
	if !a.Accept(entry) {
		return nil
	}

	var err error
	switch {
	case a.bufferFormatter != nil:
		if a.mu.TryLock() {
			a.syncBuf.Reset()
			a.bufferFormatter.FormatEntry(entry, &a.syncBuf)
			_, err = a.writer.Write(a.syncBuf.Bytes())
			a.mu.Unlock()
			break
		}
		buf := a.parBufPool.Get().(*bytes.Buffer)
		buf.Reset()
		a.bufferFormatter.FormatEntry(entry, buf)
		if a.concurrentSafe {
			_, err = a.writer.Write(buf.Bytes())
		} else {
			_, err = a.lw.Write(buf.Bytes())
		}
		a.parBufPool.Put(buf)

	case a.writerFormatter != nil:
		if a.concurrentSafe {
			err = a.writerFormatter.FormatTo(entry, a.writer)
		} else {
			err = a.writerFormatter.FormatTo(entry, &a.lw)
		}

	default:
		var data []byte
		data, err = a.formatter.Format(entry)
		if err != nil {
			return err
		}
		if a.concurrentSafe {
			_, err = a.writer.Write(data)
		} else {
			_, err = a.lw.Write(data)
		}
	}

	if err == nil {
		a.stats.IncrementProcessed()
	}
	return err
}

// Flush syncs the target when it is a file. Writes are unbuffered, so
// there is nothing else to drain.
func (a *Appender) Flush() error {
	if f, ok := a.writer.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		return f.Sync()
	}
	return nil
}

// Stats returns a snapshot of the appender's counters.
func (a *Appender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close marks the appender closed. The standard streams are never closed.
func (a *Appender) Close() error {
	a.MarkClosed()
	return nil
}
