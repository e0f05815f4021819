package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/philipp01105/hlog/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo formats a log entry and writes it directly to the writer
	FormatTo(entry *core.Entry, w io.Writer) error
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// IncludeGoroutine adds the originating goroutine id when the entry carries one
	IncludeGoroutine bool
	// OmitLoggerName drops the logger name from the output
	OmitLoggerName bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
}

// New returns the formatter registered under name ("text" or "json").
// An empty name selects the text formatter.
func New(name string, cfg Config) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return NewTextFormatter(cfg), nil
	case "json":
		return NewJSONFormatter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

// maxPooledBuffer caps the capacity of buffers returned to the pool.
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxPooledBuffer {
		bufferPool.Put(buf)
	}
}

// render runs f on a pooled buffer and returns a copy of the result.
func render(f BufferFormatter, entry *core.Entry) []byte {
	buf := getBuffer()
	f.FormatEntry(entry, buf)
	out := append([]byte(nil), buf.Bytes()...)
	putBuffer(buf)
	return out
}

// renderTo runs f on a pooled buffer and writes the result to w in a
// single Write call.
func renderTo(f BufferFormatter, entry *core.Entry, w io.Writer) error {
	buf := getBuffer()
	f.FormatEntry(entry, buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}
