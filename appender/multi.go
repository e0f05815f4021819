package appender

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/hlog/core"
)

// Multi is a synchronous composite appender: every entry it accepts is
// forwarded to its nested appenders in attachment order.
//
// Closing a Multi does not close the nested appenders. They are closed
// by CloseNestedAppenders, which logger shutdown runs before closing
// the appenders attached directly to loggers.
type Multi struct {
	Base
	List
}

// NewMulti creates a composite appender forwarding to the given appenders.
func NewMulti(name string, appenders ...Appender) *Multi {
	m := &Multi{}
	m.SetName(name)
	for _, a := range appenders {
		m.AddAppender(a)
	}
	return m
}

// Append forwards the entry to every nested appender. Errors of
// individual nested appenders are combined.
func (m *Multi) Append(entry *core.Entry) error {
	if !m.Accept(entry) {
		return nil
	}
	_, err := m.AppendLoop(entry)
	return err
}

// Flush flushes every nested appender that buffers.
func (m *Multi) Flush() error {
	var errs error
	for _, a := range m.Snapshot() {
		if f, ok := a.(Flusher); ok {
			errs = multierr.Append(errs, f.Flush())
		}
	}
	return errs
}

// Close marks the composite closed. Nested appenders stay open.
func (m *Multi) Close() error {
	m.MarkClosed()
	return nil
}
