package logger

// Factory creates the node for a name. It must not touch the
// hierarchy's registry; the hierarchy inserts and links the node.
type Factory interface {
	MakeNewLoggerInstance(name string, h *Hierarchy) Node
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(name string, h *Hierarchy) Node

// MakeNewLoggerInstance calls f.
func (f FactoryFunc) MakeNewLoggerInstance(name string, h *Hierarchy) Node {
	return f(name, h)
}

type defaultFactory struct{}

func (defaultFactory) MakeNewLoggerInstance(name string, h *Hierarchy) Node {
	return NewLoggerImpl(name, h)
}

// DefaultFactory creates plain *LoggerImpl nodes.
var DefaultFactory Factory = defaultFactory{}
