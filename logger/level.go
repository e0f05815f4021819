package logger

import (
	"github.com/philipp01105/hlog/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	NotSetLevel = core.NotSetLevel
	TraceLevel  = core.TraceLevel
	DebugLevel  = core.DebugLevel
	InfoLevel   = core.InfoLevel
	WarnLevel   = core.WarnLevel
	ErrorLevel  = core.ErrorLevel
	FatalLevel  = core.FatalLevel
	OffLevel    = core.OffLevel
	AllLevel    = core.AllLevel
)

// ParseLevel converts a string to a Level. Unknown names yield InfoLevel;
// use core.LevelFromString to detect them.
func ParseLevel(s string) Level {
	if l, ok := core.LevelFromString(s); ok {
		return l
	}
	return InfoLevel
}
