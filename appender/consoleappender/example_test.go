package consoleappender_test

import (
	"os"

	"github.com/philipp01105/hlog/appender/consoleappender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
)

func ExampleNew() {
	a := consoleappender.New(consoleappender.Config{
		Name:      "stdout",
		Writer:    os.Stdout,
		Formatter: formatter.NewTextFormatter(formatter.Config{TimestampFormat: "-"}),
	})
	defer a.Close()

	e := core.GetEntry()
	e.Level = core.InfoLevel
	e.LoggerName = "app"
	e.Message = "started"
	_ = a.Append(e)
	core.PutEntry(e)
	// Output:
	// - [INFO] app - started
}
