package core

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Entry represents a log entry with all its metadata
type Entry struct {
	Time       time.Time
	Level      Level
	LoggerName string
	Message    string
	Fields     []Field
	Caller     CallerInfo
	// Goroutine is the id of the goroutine that produced the entry, or 0
	// when goroutine capture is disabled.
	Goroutine uint64
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// NewCallerInfo builds a CallerInfo from an explicit file and line, as
// passed by wrappers that already know the call site. A negative line or
// an empty file yields an undefined CallerInfo.
func NewCallerInfo(file string, line int) CallerInfo {
	if file == "" || line < 0 {
		return CallerInfo{}
	}
	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Defined:   true,
	}
}

// maxPooledFields caps the field capacity of entries kept in the pool.
const maxPooledFields = 64

var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{Fields: make([]Field, 0, 8)}
	},
}

// GetEntry returns a cleared Entry from the pool. The caller sets Time.
func GetEntry() *Entry {
	return entryPool.Get().(*Entry)
}

// PutEntry clears e and returns it to the pool. e must not be used
// afterwards.
func PutEntry(e *Entry) {
	if e == nil || cap(e.Fields) > maxPooledFields {
		return
	}
	e.reset()
	entryPool.Put(e)
}

func (e *Entry) reset() {
	// drop references held by Any and string fields
	clear(e.Fields)
	*e = Entry{Fields: e.Fields[:0]}
}

// Clone returns a pooled copy of e that the caller owns. The copy must
// be released with PutEntry.
func (e *Entry) Clone() *Entry {
	c := GetEntry()
	fields := append(c.Fields[:0], e.Fields...)
	*c = *e
	c.Fields = fields
	return c
}

// GetCaller reports the call site skip frames above its own caller, as
// runtime.Caller does. Inlined frames are resolved.
func GetCaller(skip int) CallerInfo {
	var pcs [1]uintptr
	if runtime.Callers(skip+1, pcs[:]) == 0 {
		return CallerInfo{}
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.File == "" {
		return CallerInfo{}
	}
	return CallerInfo{
		File:      frame.File,
		ShortFile: filepath.Base(frame.File),
		Line:      frame.Line,
		Function:  frame.Function,
		Defined:   true,
	}
}
