package appender

import "github.com/philipp01105/hlog/core"

// Null discards every entry. It is useful to silence a branch of the
// hierarchy without turning additivity off.
type Null struct {
	Base
}

// NewNull creates a discarding appender.
func NewNull(name string) *Null {
	n := &Null{}
	n.SetName(name)
	return n
}

// Append discards the entry.
func (n *Null) Append(*core.Entry) error { return nil }

// Close marks the appender closed.
func (n *Null) Close() error {
	n.MarkClosed()
	return nil
}
