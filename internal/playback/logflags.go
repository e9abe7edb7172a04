package playback

import (
	"log"
	"sync/atomic"
)

var traceLogEnabled atomic.Bool

// SetTraceLoggingEnabled enables or disables verbose playback transition
// logging globally based on the provided boolean flag.
func SetTraceLoggingEnabled(enabled bool) {
	traceLogEnabled.Store(enabled)
}

func tracef(format string, args ...any) {
	if traceLogEnabled.Load() {
		log.Printf("playback: "+format, args...)
	}
}
