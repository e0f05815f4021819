package logger

import (
	"testing"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
)

func benchHierarchy(b *testing.B) (*Hierarchy, Logger) {
	b.Helper()
	h := NewBuilder().WithReporter(diag.Nop()).Build()
	h.Root().AddAppender(appender.NewNull("null"))
	return h, h.GetInstance("svc.db.pool")
}

func BenchmarkLogger_Disabled(b *testing.B) {
	h, l := benchHierarchy(b)
	h.Root().SetLogLevel(core.ErrorLevel)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.Debug("disabled")
	}
}

func BenchmarkLogger_Enabled(b *testing.B) {
	_, l := benchHierarchy(b)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.Info("enabled")
	}
}

func BenchmarkLogger_EnabledWithFields(b *testing.B) {
	_, l := benchHierarchy(b)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.Info("enabled", String("k", "v"), Int("n", i))
	}
}

func BenchmarkLogger_Parallel(b *testing.B) {
	_, l := benchHierarchy(b)
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Info("parallel")
		}
	})
}

func BenchmarkHierarchy_GetInstanceExisting(b *testing.B) {
	h, _ := benchHierarchy(b)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		h.GetInstance("svc.db.pool")
	}
}
