// Package core defines the shared types used across hlog.
//
// It provides the Level type for severity filtering, the Entry type that
// represents a single logging event travelling from a logger node to its
// appenders, and the Field type for zero-allocation structured key-value
// pairs.
//
// Entry objects are pooled via sync.Pool to keep the dispatch path
// allocation-free. A logger node gets an Entry with GetEntry, hands it
// to every appender on the ancestor chain, and returns it with PutEntry
// once dispatch is over. Appenders therefore must not keep a reference
// to an Entry after Append returns; asynchronous appenders take an owned
// copy with Clone.
//
// Field encodes values into fixed-size numeric fields (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. The Any field exists as a fallback for
// arbitrary types but will cause an allocation.
package core
