package logger

import "errors"

var (
	// ErrInvalidHandle is the panic value when a structural method is
	// called on the zero Logger or on a Logger of a closed Hierarchy.
	ErrInvalidHandle = errors.New("logger: invalid handle")

	// ErrHierarchyClosed is returned by operations on a closed Hierarchy.
	ErrHierarchyClosed = errors.New("logger: hierarchy closed")

	// ErrLockReleased is the panic value when a Locker is used after
	// Unlock.
	ErrLockReleased = errors.New("logger: locker already released")
)
