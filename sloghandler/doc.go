// Package sloghandler adapts a logger.Logger to log/slog.Handler, so
// code written against the standard library's structured logging can
// log into a hierarchy.
package sloghandler
