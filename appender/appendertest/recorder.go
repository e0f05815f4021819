// Package appendertest provides appenders that record what they receive,
// for testing code that configures or dispatches to appenders.
package appendertest

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// ErrInjected is returned by a Recorder configured with FailAppend.
var ErrInjected = errors.New("appendertest: injected failure")

// Journal is an ordered log of appender calls shared by several
// recorders, e.g. "s2.append", "s1.append", "s1.close".
type Journal struct {
	mu    sync.Mutex
	calls []string
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Add records a call.
func (j *Journal) Add(call string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.calls = append(j.calls, call)
	j.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (j *Journal) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}

// Index returns the position of the first occurrence of call, or -1.
func (j *Journal) Index(call string) int {
	for i, c := range j.Calls() {
		if c == call {
			return i
		}
	}
	return -1
}

// Record is what a Recorder keeps of an entry.
type Record struct {
	Level      core.Level
	LoggerName string
	Message    string
	Fields     []core.Field
	Caller     core.CallerInfo
	Goroutine  uint64
}

// Recorder is an appender that keeps every entry it accepts.
type Recorder struct {
	appender.Base
	journal *Journal

	// FailAppend makes Append return ErrInjected after recording.
	FailAppend bool
	// PanicAppend makes Append panic after recording.
	PanicAppend bool

	mu                sync.Mutex
	records           []Record
	closeCalls        atomic.Int32
	appendsAfterClose atomic.Int32
}

// NewRecorder creates a Recorder. j may be nil.
func NewRecorder(name string, j *Journal) *Recorder {
	r := &Recorder{journal: j}
	r.SetName(name)
	return r
}

// Append records the entry.
func (r *Recorder) Append(e *core.Entry) error {
	if r.IsClosed() {
		r.appendsAfterClose.Add(1)
		return nil
	}
	if !r.Accept(e) {
		return nil
	}
	r.mu.Lock()
	r.records = append(r.records, Record{
		Level:      e.Level,
		LoggerName: e.LoggerName,
		Message:    e.Message,
		Fields:     append([]core.Field(nil), e.Fields...),
		Caller:     e.Caller,
		Goroutine:  e.Goroutine,
	})
	r.mu.Unlock()
	r.journal.Add(r.Name() + ".append")

	if r.PanicAppend {
		panic("appendertest: injected panic")
	}
	if r.FailAppend {
		return ErrInjected
	}
	return nil
}

// Close counts the call and marks the recorder closed.
func (r *Recorder) Close() error {
	r.closeCalls.Add(1)
	r.journal.Add(r.Name() + ".close")
	r.MarkClosed()
	return nil
}

// Records returns a copy of the recorded entries.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	recs := r.Records()
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Message
	}
	return out
}

// Count returns the number of recorded entries.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// CloseCalls returns how many times Close was called.
func (r *Recorder) CloseCalls() int {
	return int(r.closeCalls.Load())
}

// AppendsAfterClose returns how many entries arrived after Close.
func (r *Recorder) AppendsAfterClose() int {
	return int(r.appendsAfterClose.Load())
}

// Composite is an appender.Multi that journals its own Close.
type Composite struct {
	*appender.Multi
	journal    *Journal
	closeCalls atomic.Int32
}

// NewComposite creates a journaling composite over children.
func NewComposite(name string, j *Journal, children ...appender.Appender) *Composite {
	return &Composite{Multi: appender.NewMulti(name, children...), journal: j}
}

// Close journals the call and closes the composite itself.
func (c *Composite) Close() error {
	c.closeCalls.Add(1)
	c.journal.Add(c.Name() + ".close")
	return c.Multi.Close()
}

// CloseCalls returns how many times Close was called.
func (c *Composite) CloseCalls() int {
	return int(c.closeCalls.Load())
}
