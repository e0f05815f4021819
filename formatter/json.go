package formatter

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/philipp01105/hlog/core"
)

// JSONFormatter writes one JSON object per entry:
//
//	{"time":"...","level":"INFO","logger":"svc.db","message":"connected","pool":4}
//
// Fields follow the fixed keys in order. Keys are not deduplicated.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a JSON formatter. Timestamps default to
// RFC3339Nano.
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	return &JSONFormatter{Config: cfg}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	return render(f, entry), nil
}

// FormatTo implements WriterFormatter.
func (f *JSONFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	return renderTo(f, entry, w)
}

// FormatEntry implements BufferFormatter.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	buf.WriteString(`{"time":"`)
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(`","level":"`)
	buf.WriteString(entry.Level.String())
	buf.WriteByte('"')

	if !f.OmitLoggerName && entry.LoggerName != "" {
		writeJSONKey(buf, "logger")
		writeJSONString(buf, entry.LoggerName)
	}
	writeJSONKey(buf, "message")
	writeJSONString(buf, entry.Message)

	if f.IncludeCaller && entry.Caller.Defined {
		f.writeCaller(buf, entry.Caller)
	}
	if f.IncludeGoroutine && entry.Goroutine != 0 {
		writeJSONKey(buf, "goroutine")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), entry.Goroutine, 10))
	}
	for _, field := range entry.Fields {
		writeJSONKey(buf, field.Key)
		writeJSONValue(buf, field)
	}
	buf.WriteString("}\n")
}

func (f *JSONFormatter) writeCaller(buf *bytes.Buffer, c core.CallerInfo) {
	writeJSONKey(buf, "caller")
	buf.WriteString(`{"file":`)
	writeJSONString(buf, c.ShortFile)
	buf.WriteString(`,"line":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(c.Line), 10))
	if c.Function != "" {
		buf.WriteString(`,"function":`)
		writeJSONString(buf, c.Function)
	}
	buf.WriteByte('}')
}

// writeJSONKey writes `,"key":`.
func writeJSONKey(buf *bytes.Buffer, key string) {
	buf.WriteByte(',')
	writeJSONString(buf, key)
	buf.WriteByte(':')
}

const hexDigits = "0123456789abcdef"

// writeJSONString writes s as a quoted JSON string. Bytes are copied
// through in runs; only quotes, backslashes and control characters are
// escaped.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	run := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[run:i])
		run = i + 1
		switch c {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xf])
		}
	}
	buf.WriteString(s[run:])
	buf.WriteByte('"')
}

func writeJSONValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType, core.ErrorType:
		writeJSONString(buf, field.Str)
	case core.IntType, core.Int64Type, core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		// NaN and the infinities have no JSON number form
		if math.IsNaN(field.Float64) || math.IsInf(field.Float64, 0) {
			writeJSONString(buf, strconv.FormatFloat(field.Float64, 'f', -1, 64))
			return
		}
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.AnyType:
		writeJSONAny(buf, field.Any)
	default:
		writeJSONString(buf, field.StringValue())
	}
}

// writeJSONAny marshals v with encoding/json, falling back to its %v
// form when v cannot be marshaled.
func writeJSONAny(buf *bytes.Buffer, v interface{}) {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
		return
	case error:
		writeJSONString(buf, v.Error())
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		writeJSONString(buf, core.Any("", v).StringValue())
		return
	}
	buf.Write(data)
}
