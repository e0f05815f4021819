package benchmark

import (
	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// noopAppender touches the message and returns. It measures dispatch
// without formatting.
type noopAppender struct {
	appender.Base
}

func newNoopAppender(name string) *noopAppender {
	a := &noopAppender{}
	a.SetName(name)
	return a
}

func (a *noopAppender) Append(e *core.Entry) error {
	_ = len(e.Message)
	return nil
}

func (a *noopAppender) Close() error {
	a.MarkClosed()
	return nil
}
