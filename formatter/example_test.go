package formatter_test

import (
	"fmt"
	"os"
	"time"

	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
)

func exampleEntry() *core.Entry {
	return &core.Entry{
		Time:       time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Level:      core.WarnLevel,
		LoggerName: "svc.db",
		Message:    "slow query",
		Goroutine:  7,
		Fields: []core.Field{
			core.String("table", "users"),
			core.Int("ms", 250),
		},
	}
}

func ExampleNewTextFormatter() {
	f := formatter.NewTextFormatter(formatter.Config{IncludeGoroutine: true})
	out, _ := f.Format(exampleEntry())
	fmt.Print(string(out))
	// Output:
	// 2026-01-15T12:00:00Z [WARN] [g7] svc.db - slow query table=users ms=250
}

func ExampleNewJSONFormatter() {
	f := formatter.NewJSONFormatter(formatter.Config{TimestampFormat: time.DateTime})
	_ = f.FormatTo(exampleEntry(), os.Stdout)
	// Output:
	// {"time":"2026-01-15 12:00:00","level":"WARN","logger":"svc.db","message":"slow query","table":"users","ms":250}
}

func ExampleNew() {
	f, err := formatter.New("json", formatter.Config{OmitLoggerName: true})
	if err != nil {
		panic(err)
	}
	out, _ := f.Format(exampleEntry())
	fmt.Print(string(out))

	_, err = formatter.New("xml", formatter.Config{})
	fmt.Println(err)
	// Output:
	// {"time":"2026-01-15T12:00:00Z","level":"WARN","message":"slow query","table":"users","ms":250}
	// unknown format "xml"
}
