package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/philipp01105/hlog/core"
)

// TextFormatter formats log entries as human-readable text:
//
//	2026-01-15T12:00:00Z [INFO] [g7] [db.go:42] svc.db - connected pool=4
//
// The goroutine and caller brackets appear only when enabled and known.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a text formatter. Timestamps default to RFC3339.
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	return render(f, entry), nil
}

// FormatTo implements WriterFormatter.
func (f *TextFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	return renderTo(f, entry, w)
}

// levelTags is indexed by level - TraceLevel.
var levelTags = [...]string{
	" [TRACE] ",
	" [DEBUG] ",
	" [INFO] ",
	" [WARN] ",
	" [ERROR] ",
	" [FATAL] ",
}

func levelTag(l core.Level) string {
	if i := int(l) - int(core.TraceLevel); i >= 0 && i < len(levelTags) {
		return levelTags[i]
	}
	return " [" + l.String() + "] "
}

// FormatEntry implements BufferFormatter.
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(levelTag(entry.Level))

	if f.IncludeGoroutine && entry.Goroutine != 0 {
		buf.WriteString("[g")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), entry.Goroutine, 10))
		buf.WriteString("] ")
	}
	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		buf.WriteString("] ")
	}
	if !f.OmitLoggerName && entry.LoggerName != "" {
		buf.WriteString(entry.LoggerName)
		buf.WriteString(" - ")
	}
	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		writeTextValue(buf, field)
	}
	buf.WriteByte('\n')
}

// writeTextValue quotes string values that contain spaces, quotes or
// control characters so that key=value pairs stay splittable.
func writeTextValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType, core.ErrorType:
		if needsQuoting(field.Str) {
			buf.Write(strconv.AppendQuote(buf.AvailableBuffer(), field.Str))
			return
		}
		buf.WriteString(field.Str)
	case core.IntType, core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	default:
		v := field.StringValue()
		if needsQuoting(v) {
			buf.Write(strconv.AppendQuote(buf.AvailableBuffer(), v))
			return
		}
		buf.WriteString(v)
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= ' ' || c == '"' || c == '=' || c == 0x7f {
			return true
		}
	}
	return false
}
