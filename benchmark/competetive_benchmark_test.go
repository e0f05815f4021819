package benchmark

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/hlog/appender/consoleappender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
	"github.com/philipp01105/hlog/formatter"
	"github.com/philipp01105/hlog/logger"
	"github.com/philipp01105/hlog/sloghandler"
)

// contender adapts one logging library to the scenarios below. Every
// contender writes JSON to the same writer. The message level of each
// scenario is INFO; debug is used for the disabled case.
type contender struct {
	name string
	// setup returns the per-scenario log funcs; minLevel is "debug",
	// "info" or "error".
	setup func(b *testing.B, w io.Writer, minLevel string) funcs
}

type funcs struct {
	plain    func()
	fields   func()
	debug    func()
	withCtx  func() func()
	parallel func()
}

// newHlogLogger returns a logger two levels below the root of a fresh
// hierarchy. The root carries the only appender.
func newHlogLogger(b *testing.B, w io.Writer, level core.Level) logger.Logger {
	h := logger.NewBuilder().
		WithReporter(diag.Nop()).
		WithRootLevel(level).
		Build()
	b.Cleanup(func() { _ = h.Close() })
	h.Root().AddAppender(consoleappender.New(consoleappender.Config{
		Name:      "json",
		Writer:    w,
		Formatter: formatter.NewJSONFormatter(formatter.Config{}),
	}))
	return h.GetInstance("svc.api")
}

var latency = 150 * time.Millisecond

var contenders = []contender{
	{"hlog", func(b *testing.B, w io.Writer, minLevel string) funcs {
		l := newHlogLogger(b, w, logger.ParseLevel(minLevel))
		return funcs{
			plain: func() { l.Info("info message") },
			fields: func() {
				l.Info("request handled",
					logger.String("method", "GET"),
					logger.String("path", "/api/users"),
					logger.Int("status", 200),
					logger.Duration("latency", latency))
			},
			debug: func() { l.Debug("should be skipped", logger.String("key", "value")) },
			withCtx: func() func() {
				cl := l.With(logger.String("service", "api"), logger.String("env", "prod"))
				return func() { cl.Info("request", logger.Int("status", 200)) }
			},
			parallel: func() { l.Info("parallel log", logger.String("key", "value"), logger.Int("count", 42)) },
		}
	}},
	{"slog+hlog", func(b *testing.B, w io.Writer, minLevel string) funcs {
		l := slog.New(sloghandler.New(newHlogLogger(b, w, logger.ParseLevel(minLevel))))
		return slogFuncs(l)
	}},
	{"zap", func(b *testing.B, w io.Writer, minLevel string) funcs {
		lvl, _ := zapcore.ParseLevel(minLevel)
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		l := zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
		return funcs{
			plain: func() { l.Info("info message") },
			fields: func() {
				l.Info("request handled",
					zap.String("method", "GET"),
					zap.String("path", "/api/users"),
					zap.Int("status", 200),
					zap.Duration("latency", latency))
			},
			debug: func() { l.Debug("should be skipped", zap.String("key", "value")) },
			withCtx: func() func() {
				cl := l.With(zap.String("service", "api"), zap.String("env", "prod"))
				return func() { cl.Info("request", zap.Int("status", 200)) }
			},
			parallel: func() { l.Info("parallel log", zap.String("key", "value"), zap.Int("count", 42)) },
		}
	}},
	{"slog", func(b *testing.B, w io.Writer, minLevel string) funcs {
		var lvl slog.Level
		_ = lvl.UnmarshalText([]byte(minLevel))
		return slogFuncs(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})))
	}},
	{"logrus", func(b *testing.B, w io.Writer, minLevel string) funcs {
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		lvl, _ := logrus.ParseLevel(minLevel)
		l.SetLevel(lvl)
		return funcs{
			plain: func() { l.Info("info message") },
			fields: func() {
				l.WithFields(logrus.Fields{
					"method": "GET", "path": "/api/users", "status": 200, "latency": latency,
				}).Info("request handled")
			},
			debug: func() { l.WithField("key", "value").Debug("should be skipped") },
			withCtx: func() func() {
				cl := l.WithFields(logrus.Fields{"service": "api", "env": "prod"})
				return func() { cl.WithField("status", 200).Info("request") }
			},
			parallel: func() { l.WithFields(logrus.Fields{"key": "value", "count": 42}).Info("parallel log") },
		}
	}},
	{"zerolog", func(b *testing.B, w io.Writer, minLevel string) funcs {
		lvl, _ := zerolog.ParseLevel(minLevel)
		l := zerolog.New(w).With().Timestamp().Logger().Level(lvl)
		return funcs{
			plain: func() { l.Info().Msg("info message") },
			fields: func() {
				l.Info().
					Str("method", "GET").
					Str("path", "/api/users").
					Int("status", 200).
					Dur("latency", latency).
					Msg("request handled")
			},
			debug: func() { l.Debug().Str("key", "value").Msg("should be skipped") },
			withCtx: func() func() {
				cl := l.With().Str("service", "api").Str("env", "prod").Logger()
				return func() { cl.Info().Int("status", 200).Msg("request") }
			},
			parallel: func() { l.Info().Str("key", "value").Int("count", 42).Msg("parallel log") },
		}
	}},
}

func slogFuncs(l *slog.Logger) funcs {
	return funcs{
		plain: func() { l.Info("info message") },
		fields: func() {
			l.Info("request handled",
				slog.String("method", "GET"),
				slog.String("path", "/api/users"),
				slog.Int("status", 200),
				slog.Duration("latency", latency))
		},
		debug: func() { l.Debug("should be skipped", slog.String("key", "value")) },
		withCtx: func() func() {
			cl := l.With(slog.String("service", "api"), slog.String("env", "prod"))
			return func() { cl.Info("request", slog.Int("status", 200)) }
		},
		parallel: func() { l.Info("parallel log", slog.String("key", "value"), slog.Int("count", 42)) },
	}
}

func runEach(b *testing.B, minLevel string, pick func(funcs) func()) {
	for _, c := range contenders {
		b.Run(c.name, func(b *testing.B) {
			fn := pick(c.setup(b, io.Discard, minLevel))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				fn()
			}
		})
	}
}

func BenchmarkCompetitive_InfoNoFields(b *testing.B) {
	runEach(b, "debug", func(f funcs) func() { return f.plain })
}

func BenchmarkCompetitive_InfoWithFields(b *testing.B) {
	runEach(b, "debug", func(f funcs) func() { return f.fields })
}

func BenchmarkCompetitive_DisabledLevel(b *testing.B) {
	runEach(b, "error", func(f funcs) func() { return f.debug })
}

func BenchmarkCompetitive_AccumulatedContext(b *testing.B) {
	runEach(b, "debug", func(f funcs) func() { return f.withCtx() })
}

func BenchmarkCompetitive_Parallel(b *testing.B) {
	for _, c := range contenders {
		b.Run(c.name, func(b *testing.B) {
			fn := c.setup(b, io.Discard, "debug").parallel
			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					fn()
				}
			})
		})
	}
}

func BenchmarkCompetitive_FileOutput(b *testing.B) {
	for _, c := range contenders {
		b.Run(c.name, func(b *testing.B) {
			f, err := os.CreateTemp(b.TempDir(), "bench-*.log")
			if err != nil {
				b.Fatal(err)
			}
			defer f.Close()
			fn := c.setup(b, f, "info").plain
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				fn()
			}
		})
	}
}
