// Command hlogcheck validates hlog configuration files and shows the
// logger tree they produce.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
