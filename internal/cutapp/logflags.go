package cutapp

import playback "github.com/edward-ap/wavecut/internal/playback"

// SetTraceLogEnabled toggles verbose playback transition logging. Call this
// before creating the App so every controller sees the flag.
func SetTraceLogEnabled(b bool) { playback.SetTraceLoggingEnabled(b) }
