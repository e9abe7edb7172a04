// Package timefmt converts between playback positions in seconds and the
// human-editable clock text shown in the cut list and toolbar.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders seconds as "mm:ss", or "h:mm:ss" once the value reaches an
// hour. Sub-second precision is truncated for display.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Parse reads "s", "m:s" or "h:m:s" text back into seconds. The seconds
// component may carry a fractional part with either '.' or ',' as the decimal
// separator. Malformed or negative components report ok=false; the caller is
// responsible for clamping a successful result to the track duration.
func Parse(text string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	// Only the trailing (seconds) component may be fractional.
	secText := strings.Replace(parts[len(parts)-1], ",", ".", 1)
	sec, err := strconv.ParseFloat(secText, 64)
	if err != nil || sec < 0 {
		return 0, false
	}

	total := sec
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 {
			return 0, false
		}
		total += float64(v) * scale
		scale *= 60
	}
	return total, true
}
