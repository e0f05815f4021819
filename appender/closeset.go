package appender

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

// CloseSet closes appenders at most once each and collects their
// errors. Shutdown uses one set across a whole hierarchy so an appender
// shared by several loggers, or nested in a composite and also attached
// directly, is closed exactly once.
type CloseSet struct {
	closed  map[Appender]struct{}
	visited map[Attachable]struct{}
	err     error
}

// NewCloseSet returns an empty CloseSet.
func NewCloseSet() *CloseSet {
	return &CloseSet{
		closed:  make(map[Appender]struct{}),
		visited: make(map[Attachable]struct{}),
	}
}

// Close closes a unless this set already closed it.
func (s *CloseSet) Close(a Appender) {
	if isComparable(a) {
		if _, ok := s.closed[a]; ok {
			return
		}
		s.closed[a] = struct{}{}
	}
	if err := safeClose(a); err != nil {
		s.err = multierr.Append(s.err, &Error{Name: a.Name(), Op: "close", Err: err})
	}
}

// Closed reports whether this set has closed a.
func (s *CloseSet) Closed(a Appender) bool {
	if !isComparable(a) {
		return false
	}
	_, ok := s.closed[a]
	return ok
}

// CloseNested walks the appenders held by h. For every appender that is
// itself Attachable it first descends into it and then closes its direct
// children, so the deepest appenders close first. Appenders held
// directly by h are left open.
func (s *CloseSet) CloseNested(h Attachable) {
	if isComparable(h) {
		if _, ok := s.visited[h]; ok {
			return
		}
		s.visited[h] = struct{}{}
	}
	for _, a := range h.GetAllAppenders() {
		nested, ok := a.(Attachable)
		if !ok {
			continue
		}
		s.CloseNested(nested)
		for _, child := range nested.GetAllAppenders() {
			s.Close(child)
		}
	}
}

// Err returns the combined close errors.
func (s *CloseSet) Err() error {
	return s.err
}

func safeClose(a Appender) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Close()
}

func isComparable(v interface{}) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}

// CloseAll closes each of appenders together with everything nested in
// them. Nested appenders close before the composites holding them.
func (s *CloseSet) CloseAll(appenders []Appender) {
	for _, a := range appenders {
		if h, ok := a.(Attachable); ok {
			s.CloseNested(h)
			for _, child := range h.GetAllAppenders() {
				s.Close(child)
			}
		}
	}
	for _, a := range appenders {
		s.Close(a)
	}
}

// FlushAll flushes every Flusher among appenders once, in order, and
// returns the combined errors.
func FlushAll(appenders []Appender) error {
	var errs error
	seen := make(map[Appender]struct{})
	for _, a := range appenders {
		f, ok := a.(Flusher)
		if !ok {
			continue
		}
		if isComparable(a) {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
		}
		if err := safeFlush(f); err != nil {
			errs = multierr.Append(errs, &Error{Name: a.Name(), Op: "flush", Err: err})
		}
	}
	return errs
}

func safeFlush(f Flusher) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f.Flush()
}
