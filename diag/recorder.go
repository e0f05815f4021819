package diag

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Report is one diagnostic captured by a Recorder.
type Report struct {
	Level   zapcore.Level
	Message string
	Err     error
	Fields  map[string]interface{}
}

// Recorder is a Reporter that keeps every diagnostic in memory.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Warn(msg string, fields ...zap.Field) {
	r.add(zapcore.WarnLevel, msg, nil, fields)
}

func (r *Recorder) Error(msg string, err error, fields ...zap.Field) {
	r.add(zapcore.ErrorLevel, msg, err, fields)
}

func (r *Recorder) Debug(msg string, fields ...zap.Field) {
	r.add(zapcore.DebugLevel, msg, nil, fields)
}

func (r *Recorder) add(level zapcore.Level, msg string, err error, fields []zap.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	r.mu.Lock()
	r.reports = append(r.reports, Report{Level: level, Message: msg, Err: err, Fields: enc.Fields})
	r.mu.Unlock()
}

// Reports returns a copy of the captured diagnostics.
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.reports...)
}

// Count returns how many diagnostics with the given message were captured.
func (r *Recorder) Count(msg string) int {
	n := 0
	for _, rep := range r.Reports() {
		if rep.Message == msg {
			n++
		}
	}
	return n
}

// Reset discards captured diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.reports = nil
	r.mu.Unlock()
}
