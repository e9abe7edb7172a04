package main

import (
	"flag"

	cutapp "github.com/edward-ap/wavecut/internal/cutapp"
)

func main() {
	trace := flag.Bool("traceLog", false, "enable verbose playback logging")
	flag.Parse()
	cutapp.SetTraceLogEnabled(*trace)

	path := flag.Arg(0)
	app := cutapp.NewApp(path)
	app.Run()
}
