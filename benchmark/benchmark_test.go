package benchmark

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/appender/asyncappender"
	"github.com/philipp01105/hlog/appender/consoleappender"
	"github.com/philipp01105/hlog/appender/fileappender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
	"github.com/philipp01105/hlog/formatter"
	"github.com/philipp01105/hlog/logger"
)

func newHierarchy(b *testing.B) *logger.Hierarchy {
	b.Helper()
	h := logger.NewBuilder().WithReporter(diag.Nop()).Build()
	b.Cleanup(func() { _ = h.Close() })
	return h
}

func discardConsole(name string, f formatter.Formatter) *consoleappender.Appender {
	return consoleappender.New(consoleappender.Config{
		Name:      name,
		Writer:    io.Discard,
		Formatter: f,
	})
}

func textFormatter() formatter.Formatter {
	return formatter.NewTextFormatter(formatter.Config{})
}

func jsonFormatter() formatter.Formatter {
	return formatter.NewJSONFormatter(formatter.Config{})
}

// Logger creation, including the ancestor chain
func BenchmarkGetInstance_New(b *testing.B) {
	h := newHierarchy(b)
	names := make([]string, 4096)
	for i := range names {
		names[i] = fmt.Sprintf("svc%d.mod%d.comp%d", i%16, i%64, i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if i%len(names) == 0 && i > 0 {
			b.StopTimer()
			h = logger.NewBuilder().WithReporter(diag.Nop()).Build()
			b.StartTimer()
		}
		_ = h.GetInstance(names[i%len(names)])
	}
}

func BenchmarkGetInstance_Existing(b *testing.B) {
	h := newHierarchy(b)
	h.GetInstance("svc.api.handler")

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = h.GetInstance("svc.api.handler")
		}
	})
}

// Effective level lookup at increasing depth below the only assigned level
func BenchmarkIsEnabledFor_Depth(b *testing.B) {
	for _, depth := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			h := newHierarchy(b)
			h.Root().SetLogLevel(core.InfoLevel)
			parts := make([]string, depth)
			for i := range parts {
				parts[i] = fmt.Sprintf("n%d", i)
			}
			lg := h.GetInstance(strings.Join(parts, "."))

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = lg.IsEnabledFor(core.DebugLevel)
			}
		})
	}
}

func BenchmarkDisabledLevel(b *testing.B) {
	h := newHierarchy(b)
	h.Root().SetLogLevel(core.WarnLevel)
	h.Root().AddAppender(newNoopAppender("noop"))
	lg := h.GetInstance("svc.db")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Debug("not logged", logger.String("key", "value"))
	}
}

func BenchmarkDisableThreshold(b *testing.B) {
	h := newHierarchy(b)
	h.Root().AddAppender(newNoopAppender("noop"))
	h.DisableInfo()
	lg := h.GetInstance("svc.db")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Info("not logged")
	}
}

// Additive dispatch through a chain of loggers that each carry an appender
func BenchmarkAdditiveDispatch(b *testing.B) {
	for _, depth := range []int{1, 3, 6} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			h := newHierarchy(b)
			name := ""
			for i := 0; i < depth; i++ {
				if name != "" {
					name += "."
				}
				name += fmt.Sprintf("n%d", i)
				h.GetInstance(name).AddAppender(newNoopAppender(name))
			}
			lg := h.GetInstance(name)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lg.Info("dispatched")
			}
		})
	}
}

func BenchmarkNonAdditiveDispatch(b *testing.B) {
	h := newHierarchy(b)
	h.Root().AddAppender(newNoopAppender("root"))
	lg := h.GetInstance("svc.db")
	lg.AddAppender(newNoopAppender("db"))
	lg.SetAdditivity(false)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Info("dispatched")
	}
}

func BenchmarkInfo(b *testing.B) {
	cases := []struct {
		name   string
		fields []core.Field
	}{
		{"NoFields", nil},
		{"1Field", []core.Field{logger.String("key", "value")}},
		{"5Fields", []core.Field{
			logger.String("method", "GET"),
			logger.String("path", "/api/users"),
			logger.Int("status", 200),
			logger.Duration("latency", 150*time.Millisecond),
			logger.Bool("cached", false),
		}},
	}
	for _, c := range cases {
		for _, f := range []struct {
			name string
			fmt  formatter.Formatter
		}{{"Text", textFormatter()}, {"JSON", jsonFormatter()}} {
			b.Run(c.name+"/"+f.name, func(b *testing.B) {
				h := newHierarchy(b)
				h.Root().AddAppender(discardConsole("console", f.fmt))
				lg := h.GetInstance("svc.api")

				b.ResetTimer()
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					lg.Info("request handled", c.fields...)
				}
			})
		}
	}
}

func BenchmarkWith(b *testing.B) {
	h := newHierarchy(b)
	h.Root().AddAppender(discardConsole("console", textFormatter()))
	lg := h.GetInstance("svc.api").With(
		logger.String("service", "api"),
		logger.String("version", "1.0.0"),
	)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Info("request handled", logger.Int("status", 200))
	}
}

func BenchmarkWithCaller(b *testing.B) {
	h := logger.NewBuilder().WithReporter(diag.Nop()).WithCaller(true).Build()
	b.Cleanup(func() { _ = h.Close() })
	h.Root().AddAppender(discardConsole("console", formatter.NewTextFormatter(formatter.Config{IncludeCaller: true})))
	lg := h.GetInstance("svc.api")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Info("with caller")
	}
}

func BenchmarkFormattedLogging(b *testing.B) {
	h := newHierarchy(b)
	h.Root().AddAppender(discardConsole("console", textFormatter()))
	lg := h.GetInstance("svc.api")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lg.Infof("user %s logged in from %s", "alice", "10.0.0.1")
	}
}

func BenchmarkParallel(b *testing.B) {
	b.Run("Noop", func(b *testing.B) {
		h := newHierarchy(b)
		h.Root().AddAppender(newNoopAppender("noop"))
		lg := h.GetInstance("svc.api")

		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				lg.Info("parallel log", logger.String("key", "value"))
			}
		})
	})

	b.Run("Text", func(b *testing.B) {
		h := newHierarchy(b)
		h.Root().AddAppender(discardConsole("console", textFormatter()))
		lg := h.GetInstance("svc.api")

		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				lg.Info("parallel log", logger.String("key", "value"))
			}
		})
	})

	// structural changes on other loggers while logging
	b.Run("WithReconfiguration", func(b *testing.B) {
		h := newHierarchy(b)
		h.Root().AddAppender(newNoopAppender("noop"))
		lg := h.GetInstance("svc.api")
		other := h.GetInstance("svc.batch")

		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				if i%2 == 0 {
					other.SetLogLevel(core.ErrorLevel)
				} else {
					other.SetLogLevel(core.NotSetLevel)
				}
			}
		}()

		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				lg.Info("parallel log")
			}
		})
		b.StopTimer()
		close(stop)
		<-done
	})
}

func BenchmarkAsyncAppender(b *testing.B) {
	for _, policy := range []appender.OverflowPolicy{appender.DropNewest, appender.DropOldest, appender.Block} {
		b.Run(policy.String(), func(b *testing.B) {
			h := newHierarchy(b)
			levels := make(map[core.Level]appender.OverflowPolicy)
			for l := core.TraceLevel; l <= core.FatalLevel; l++ {
				levels[l] = policy
			}
			async := asyncappender.New(asyncappender.Config{
				Name:           "async",
				BufferSize:     1024,
				OverflowPolicy: levels,
			}, discardConsole("console", textFormatter()))
			h.Root().AddAppender(async)
			lg := h.GetInstance("svc.api")

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lg.Info("queued", logger.Int("i", i))
			}
			b.StopTimer()
			_ = async.Flush()
		})
	}
}

func BenchmarkFileAppender(b *testing.B) {
	for _, size := range []int{0, 4096, 64 * 1024} {
		b.Run(fmt.Sprintf("buffer=%d", size), func(b *testing.B) {
			h := newHierarchy(b)
			fa, err := fileappender.New(fileappender.Config{
				Name:       "file",
				Filename:   filepath.Join(b.TempDir(), "bench.log"),
				Formatter:  jsonFormatter(),
				MaxSizeMB:  512,
				BufferSize: size,
			})
			if err != nil {
				b.Fatal(err)
			}
			h.Root().AddAppender(fa)
			lg := h.GetInstance("svc.api")

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lg.Info("file log", logger.String("key", "value"))
			}
		})
	}
}

func BenchmarkMultiAppender(b *testing.B) {
	for _, n := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("appenders=%d", n), func(b *testing.B) {
			h := newHierarchy(b)
			children := make([]appender.Appender, n)
			for i := range children {
				children[i] = newNoopAppender(fmt.Sprintf("noop%d", i))
			}
			h.Root().AddAppender(appender.NewMulti("multi", children...))
			lg := h.GetInstance("svc.api")

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lg.Info("fan out")
			}
		})
	}
}

func BenchmarkCoarseClock(b *testing.B) {
	for _, coarse := range []bool{false, true} {
		b.Run(fmt.Sprintf("coarse=%v", coarse), func(b *testing.B) {
			h := logger.NewBuilder().WithReporter(diag.Nop()).WithCoarseClock(coarse).Build()
			b.Cleanup(func() { _ = h.Close() })
			h.Root().AddAppender(discardConsole("console", textFormatter()))
			lg := h.GetInstance("svc.api")

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lg.Info("tick")
			}
		})
	}
}
