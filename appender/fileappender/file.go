package fileappender

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
)

// ErrNoFilename is returned by New when Config.Filename is empty.
var ErrNoFilename = errors.New("fileappender: filename is required")

// Config holds configuration for the file appender
type Config struct {
	// Name of the appender
	Name string
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// MaxSizeMB is the size in megabytes that triggers rotation (default: 100)
	MaxSizeMB int
	// MaxBackups is the maximum number of rotated files to retain (0 = keep all)
	MaxBackups int
	// MaxAgeDays removes rotated files older than this many days (0 = keep all)
	MaxAgeDays int
	// Compress gzips rotated files
	Compress bool
	// LocalTime names backups using local time instead of UTC
	LocalTime bool
	// BufferSize is the write buffer size in bytes. 0 writes every entry
	// through immediately.
	BufferSize int
}

// Appender writes entries to a rotating file.
type Appender struct {
	appender.Base

	out             *lumberjack.Logger
	w               io.Writer
	bufWriter       *bufio.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	stats           *appender.Stats

	mu      sync.Mutex // protects syncBuf, bufWriter and out
	syncBuf bytes.Buffer
}

// New creates a file appender. The directory of Filename is created if
// it does not exist; the file itself is opened on the first write.
func New(cfg Config) (*Appender, error) {
	if cfg.Filename == "" {
		return nil, ErrNoFilename
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return nil, err
	}
	f := cfg.Formatter
	if f == nil {
		f = formatter.NewTextFormatter(formatter.Config{})
	}

	a := &Appender{
		out: &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
		formatter: f,
		stats:     appender.NewStats(),
	}
	a.SetName(cfg.Name)
	a.w = a.out
	if cfg.BufferSize > 0 {
		a.bufWriter = bufio.NewWriterSize(a.out, cfg.BufferSize)
		a.w = a.bufWriter
	}
	a.bufferFormatter, _ = f.(formatter.BufferFormatter)
	if a.bufferFormatter != nil {
		a.syncBuf.Grow(256)
	}
	return a, nil
}

// Filename returns the path of the active log file.
func (a *Appender) Filename() string {
	return a.out.Filename
}

// Append formats and writes the entry.
func (a *Appender) Append(entry *core.Entry) error {
	if !a.Accept(entry) {
		return nil
	}

	if a.bufferFormatter != nil {
		a.mu.Lock()
		if a.IsClosed() {
			a.mu.Unlock()
			return nil
		}
		a.syncBuf.Reset()
		a.bufferFormatter.FormatEntry(entry, &a.syncBuf)
		_, err := a.w.Write(a.syncBuf.Bytes())
		a.mu.Unlock()
		if err == nil {
			a.stats.IncrementProcessed()
		}
		return err
	}

	data, err := a.formatter.Format(entry)
	if err != nil {
		return err
	}
	a.mu.Lock()
	if a.IsClosed() {
		a.mu.Unlock()
		return nil
	}
	_, err = a.w.Write(data)
	a.mu.Unlock()
	if err == nil {
		a.stats.IncrementProcessed()
	}
	return err
}

// Flush writes any buffered entries to the file.
func (a *Appender) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bufWriter == nil {
		return nil
	}
	return a.bufWriter.Flush()
}

// Rotate closes the current file, renames it with a timestamp and opens
// a new one.
func (a *Appender) Rotate() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bufWriter != nil {
		if err := a.bufWriter.Flush(); err != nil {
			return err
		}
	}
	return a.out.Rotate()
}

// Stats returns a snapshot of the appender's counters.
func (a *Appender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close flushes buffered entries and closes the file.
func (a *Appender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.MarkClosed() {
		return nil
	}
	var flushErr error
	if a.bufWriter != nil {
		flushErr = a.bufWriter.Flush()
	}
	closeErr := a.out.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
