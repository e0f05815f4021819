package core

import (
	"math"
	"strings"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// NotSetLevel marks a logger without an explicit level. The logger
	// inherits the level of its nearest ancestor that has one.
	NotSetLevel Level = math.MinInt8
	// TraceLevel for very fine-grained tracing
	TraceLevel Level = -1
	// DebugLevel for detailed debugging information
	DebugLevel Level = 0
	// InfoLevel for general informational messages
	InfoLevel Level = 1
	// WarnLevel for warning messages
	WarnLevel Level = 2
	// ErrorLevel for error messages
	ErrorLevel Level = 3
	// FatalLevel for fatal messages. Logging at this level does not
	// terminate the process.
	FatalLevel Level = 4
	// OffLevel used as a threshold rejects every event
	OffLevel Level = 5

	// AllLevel used as a threshold accepts every event
	AllLevel = TraceLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case NotSetLevel:
		return "NOTSET"
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case OffLevel:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name. It reports false for unknown names.
func LevelFromString(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NOTSET", "NOT_SET", "INHERITED":
		return NotSetLevel, true
	case "TRACE", "ALL":
		return TraceLevel, true
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN", "WARNING":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "FATAL":
		return FatalLevel, true
	case "OFF":
		return OffLevel, true
	default:
		return NotSetLevel, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := LevelFromString(string(text))
	if !ok {
		return &UnknownLevelError{Name: string(text)}
	}
	*l = parsed
	return nil
}

// UnknownLevelError is returned when a level name cannot be parsed.
type UnknownLevelError struct {
	Name string
}

func (e *UnknownLevelError) Error() string {
	return "unknown log level " + strings.TrimSpace(e.Name)
}
